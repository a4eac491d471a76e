package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/ports/inbound"
)

// GenerateMeals handles POST /api/v1/meal-plans/generate
func (h *APIHandlers) GenerateMeals(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req GenerateMealsRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	calendar, err := h.plans.Generate(r.Context(), req.command(user))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"calendar": calendar})
}

// GetPlan handles GET /api/v1/meal-plans. With start and end it returns that
// range; otherwise the rolling window aligned to week_starts_on.
func (h *APIHandlers) GetPlan(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	if start, end := q.Get("start"), q.Get("end"); start != "" || end != "" {
		calendar, err := h.plans.Query(r.Context(), user, mealplan.Date(start), mealplan.Date(end))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, inbound.PlanWindowDTO{
			Start:    mealplan.Date(start),
			End:      mealplan.Date(end),
			Calendar: calendar,
		})
		return
	}

	window, err := h.plans.RollingWindow(r.Context(), user, parseWeekStartsOn(q.Get("week_starts_on")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, window)
}

// parseWeekStartsOn accepts 0 (Sunday) through 6; anything else is Sunday
func parseWeekStartsOn(raw string) time.Weekday {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 6 {
		return time.Sunday
	}
	return time.Weekday(n)
}

// SavePlan handles POST /api/v1/meal-plans
func (h *APIHandlers) SavePlan(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req SavePlanRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	saved, err := h.plans.Save(r.Context(), inbound.SavePlanCommand{UserID: user, Calendar: req.Calendar})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Saved: &saved})
}

// DeletePlanEntry handles DELETE /api/v1/meal-plans?date=&slot=&recipe_id=
func (h *APIHandlers) DeletePlanEntry(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	query := DeleteEntryQuery{Date: q.Get("date"), Slot: q.Get("slot"), RecipeID: q.Get("recipe_id")}
	if err := h.validator.ValidateStruct(query); err != nil {
		h.writeError(w, r, err)
		return
	}

	err = h.plans.Delete(r.Context(), inbound.DeleteEntryCommand{
		UserID:   user,
		Date:     mealplan.Date(query.Date),
		Slot:     mealplan.Slot(query.Slot),
		RecipeID: uuid.MustParse(query.RecipeID),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
