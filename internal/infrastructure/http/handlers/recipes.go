package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/weeklydish/planner/pkg/errors"
)

// ListRecipes handles GET /api/v1/recipes
func (h *APIHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.ListRecipes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"recipes": recipes})
}

// GetRecipe handles GET /api/v1/recipes/{id}
func (h *APIHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		// an id that cannot exist is reported like any other unknown id
		h.writeError(w, r, errors.NewRecipeNotFoundError(raw))
		return
	}

	recipe, err := h.recipes.GetRecipe(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"recipe": recipe})
}

// CreateRecipe handles POST /api/v1/recipes
func (h *APIHandlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req CreateRecipeRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	recipe, err := h.recipes.CreateRecipe(r.Context(), req.command(user))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/recipes/"+recipe.ID.String())
	h.writeJSON(w, http.StatusCreated, map[string]interface{}{"recipe": recipe})
}
