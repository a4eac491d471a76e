// Package recipe provides the application layer for the recipe catalog
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/weeklydish/planner/internal/domain/recipe"
	"github.com/weeklydish/planner/internal/ports/inbound"
	"github.com/weeklydish/planner/internal/ports/outbound"
	"github.com/weeklydish/planner/pkg/errors"
	"go.uber.org/zap"
)

const (
	listCacheKey   = "recipes:list"
	recipeCacheKey = "recipe:%s"

	// DefaultCacheTTL applies when no TTL is configured
	DefaultCacheTTL = 10 * time.Minute
)

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo outbound.RecipeRepository
	cache      outbound.CacheRepository
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewRecipeService creates a new recipe service. cache may be nil.
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	cache outbound.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *RecipeService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &RecipeService{
		recipeRepo: recipeRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger.Named("recipe-service"),
	}
}

// CreateRecipe creates a new recipe with its ingredient lines and steps
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	if cmd.UserID == "" {
		return nil, errors.NewUnauthorizedError("")
	}

	s.logger.Info("Creating new recipe",
		zap.String("title", cmd.Title),
		zap.String("user_id", cmd.UserID),
	)

	recipeEntity, err := recipe.NewRecipe(cmd.Title, cmd.CourseRole, cmd.Category)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	for i, ingredientCmd := range cmd.Ingredients {
		line, err := recipe.NewIngredientLine(
			ingredientCmd.Name,
			recipe.NewQuantity(ingredientCmd.Amount, ingredientCmd.Unit, ingredientCmd.AmountText),
		)
		if err != nil {
			return nil, errors.NewValidationError(err.Error()).WithMetadata("ingredient", i)
		}
		if err := recipeEntity.AddIngredient(line); err != nil {
			return nil, errors.NewValidationError(err.Error()).WithMetadata("ingredient", i)
		}
	}

	for i, step := range cmd.Steps {
		if err := recipeEntity.AddStep(step); err != nil {
			return nil, errors.NewValidationError(err.Error()).WithMetadata("step", i)
		}
	}

	if err := s.recipeRepo.Create(ctx, recipeEntity); err != nil {
		return nil, errors.NewDatabaseError("create recipe", err)
	}

	for _, event := range recipeEntity.Events() {
		s.logger.Debug("Domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}

	s.invalidate(ctx, listCacheKey)

	dto := inbound.ToRecipeDTO(recipeEntity)

	s.logger.Info("Recipe created successfully",
		zap.String("recipe_id", dto.ID.String()),
		zap.String("title", dto.Title),
		zap.String("course_role", string(dto.CourseRole)),
	)

	return dto, nil
}

// ListRecipes returns the catalog sorted by title
func (s *RecipeService) ListRecipes(ctx context.Context) ([]inbound.RecipeSummaryDTO, error) {
	var cached []inbound.RecipeSummaryDTO
	if s.getCached(ctx, listCacheKey, &cached) {
		return cached, nil
	}

	recipes, err := s.recipeRepo.List(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list recipes", err)
	}

	summaries := make([]inbound.RecipeSummaryDTO, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, inbound.RecipeSummaryDTO{
			ID:         r.ID(),
			Title:      r.Title(),
			CourseRole: r.CourseRole(),
		})
	}

	s.setCached(ctx, listCacheKey, summaries)

	return summaries, nil
}

// GetRecipe returns one recipe with ingredients and steps
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID uuid.UUID) (*inbound.RecipeDTO, error) {
	key := fmt.Sprintf(recipeCacheKey, recipeID)

	var cached inbound.RecipeDTO
	if s.getCached(ctx, key, &cached) {
		return &cached, nil
	}

	recipeEntity, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		if stderrors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errors.NewRecipeNotFoundError(recipeID.String())
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}

	dto := inbound.ToRecipeDTO(recipeEntity)
	s.setCached(ctx, key, dto)

	return dto, nil
}

// getCached decodes a cached value into dst. Cache failures count as misses.
func (s *RecipeService) getCached(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !stderrors.Is(err, outbound.ErrCacheMiss) {
			s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		s.invalidate(ctx, key)
		return false
	}
	return true
}

func (s *RecipeService) setCached(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *RecipeService) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("Cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

var _ inbound.RecipeService = (*RecipeService)(nil)
