// Package shopping provides the shopping list use case
package shopping

import (
	"context"

	"github.com/google/uuid"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/recipe"
	"github.com/weeklydish/planner/internal/domain/shopping"
	"github.com/weeklydish/planner/internal/ports/inbound"
	"github.com/weeklydish/planner/internal/ports/outbound"
	"github.com/weeklydish/planner/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Service aggregates the ingredients of a persisted plan
type Service struct {
	plans        outbound.PlanRepository
	recipes      outbound.RecipeRepository
	metrics outbound.PlannerMetrics
	tracer  trace.Tracer
	logger  *zap.Logger
}

// NewService creates a new shopping list service
func NewService(
	plans outbound.PlanRepository,
	recipes outbound.RecipeRepository,
	metrics outbound.PlannerMetrics,
	logger *zap.Logger,
) *Service {
	if metrics == nil {
		metrics = outbound.NopMetrics{}
	}
	return &Service{
		plans:   plans,
		recipes: recipes,
		metrics: metrics,
		tracer:  otel.Tracer("planner/shopping"),
		logger:  logger.Named("shopping-service"),
	}
}

// ShoppingList merges the ingredient lines of every entry the user planned
// in [start, end]. A recipe planned twice contributes its lines twice.
func (s *Service) ShoppingList(ctx context.Context, userID string, start, end mealplan.Date) ([]shopping.ShoppingListItem, error) {
	ctx, span := s.tracer.Start(ctx, "shopping.ShoppingList")
	defer span.End()

	if userID == "" {
		return nil, errors.NewUnauthorizedError("")
	}
	for _, d := range []mealplan.Date{start, end} {
		if _, err := mealplan.ParseDate(string(d)); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if end.Before(start) {
		return nil, errors.NewValidationError(mealplan.ErrInvalidRange.Error())
	}

	entries, err := s.plans.FindRange(ctx, userID, start, end)
	if err != nil {
		span.RecordError(err)
		return nil, errors.NewDatabaseError("query plan entries", err)
	}

	items := []shopping.ShoppingListItem{}
	if len(entries) > 0 {
		ids := distinctRecipeIDs(entries)
		loaded, err := s.recipes.FindByIDs(ctx, ids)
		if err != nil {
			span.RecordError(err)
			return nil, errors.NewDatabaseError("load planned recipes", err)
		}

		byID := make(map[uuid.UUID]*recipe.Recipe, len(loaded))
		for _, r := range loaded {
			byID[r.ID()] = r
		}

		sequence := make([]*recipe.Recipe, 0, len(entries))
		for _, e := range entries {
			r, ok := byID[e.RecipeID]
			if !ok {
				s.logger.Warn("Planned recipe no longer exists",
					zap.String("recipe_id", e.RecipeID.String()),
					zap.String("date", e.Date.String()),
				)
				continue
			}
			sequence = append(sequence, r)
		}

		items = shopping.Aggregate(sequence)
	}

	s.metrics.ObserveShoppingList(len(items))
	span.SetAttributes(
		attribute.Int("shopping.entries", len(entries)),
		attribute.Int("shopping.items", len(items)),
	)

	s.logger.Debug("Shopping list built",
		zap.String("user_id", userID),
		zap.String("start", start.String()),
		zap.String("end", end.String()),
		zap.Int("entries", len(entries)),
		zap.Int("items", len(items)),
	)

	return items, nil
}

func distinctRecipeIDs(entries []mealplan.PlanEntry) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(entries))
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.RecipeID]; ok {
			continue
		}
		seen[e.RecipeID] = struct{}{}
		ids = append(ids, e.RecipeID)
	}
	return ids
}

var _ inbound.ShoppingService = (*Service)(nil)
