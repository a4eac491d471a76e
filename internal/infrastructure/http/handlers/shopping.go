package handlers

import (
	"net/http"

	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/pkg/errors"
)

// ShoppingList handles GET /api/v1/shopping-list?start=&end=
func (h *APIHandlers) ShoppingList(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	start, end := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	if start == "" || end == "" {
		h.writeError(w, r, errors.NewBadRequestError("start and end required"))
		return
	}

	items, err := h.shopping.ShoppingList(r.Context(), user, mealplan.Date(start), mealplan.Date(end))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"shopping_list": items})
}
