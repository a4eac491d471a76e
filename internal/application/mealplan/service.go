// Package mealplan provides the application layer for meal planning: the
// generator and the use cases that connect it to the catalog, the usage
// history and the plan store.
package mealplan

import (
	"context"
	"time"

	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/ports/inbound"
	"github.com/weeklydish/planner/internal/ports/outbound"
	"github.com/weeklydish/planner/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config holds the planning windows
type Config struct {
	// RecencyWindowDays excludes recipes planned on or after today minus
	// this many days
	RecencyWindowDays int
	// HistoryWeeks is how far back the rolling window starts
	HistoryWeeks int
	// WindowDays is the length of the rolling window
	WindowDays int
	// MaxRangeDays caps the range a single generation may cover
	MaxRangeDays int
	// Location decides which calendar day "today" is
	Location *time.Location
}

// DefaultConfig returns the 28-day recency window and the 35-day rolling
// window starting four weeks back
func DefaultConfig() Config {
	return Config{
		RecencyWindowDays: 28,
		HistoryWeeks:      4,
		WindowDays:        35,
		MaxRangeDays:      62,
		Location:          time.Local,
	}
}

// Service implements the meal planning use cases
type Service struct {
	recipes   outbound.RecipeRepository
	history   outbound.UsageHistory
	plans     outbound.PlanRepository
	generator *Generator
	metrics   outbound.PlannerMetrics
	config    Config
	now       func() time.Time
	tracer    trace.Tracer
	logger    *zap.Logger
}

// NewService creates a new meal plan service
func NewService(
	recipes outbound.RecipeRepository,
	history outbound.UsageHistory,
	plans outbound.PlanRepository,
	generator *Generator,
	metrics outbound.PlannerMetrics,
	config Config,
	logger *zap.Logger,
) *Service {
	if metrics == nil {
		metrics = outbound.NopMetrics{}
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	return &Service{
		recipes:   recipes,
		history:   history,
		plans:     plans,
		generator: generator,
		metrics:   metrics,
		config:    config,
		now:       time.Now,
		tracer:    otel.Tracer("planner/mealplan"),
		logger:    logger.Named("mealplan-service"),
	}
}

// SetClock replaces the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Today returns the current calendar day in the configured location
func (s *Service) Today() mealplan.Date {
	return mealplan.DateOf(s.now().In(s.config.Location))
}

// Generate draws a calendar for the requested range. Recipes the user
// planned within the recency window are left out. The result is not stored.
func (s *Service) Generate(ctx context.Context, cmd inbound.GenerateMealsCommand) (mealplan.Calendar, error) {
	ctx, span := s.tracer.Start(ctx, "mealplan.Generate")
	defer span.End()

	if cmd.UserID == "" {
		return nil, errors.NewUnauthorizedError("")
	}
	if err := cmd.Targets.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	dates, appErr := s.dateRange(cmd.Start, cmd.End, s.config.MaxRangeDays)
	if appErr != nil {
		return nil, appErr
	}

	start := time.Now()
	s.logger.Info("Generating meal plan",
		zap.String("user_id", cmd.UserID),
		zap.String("start", cmd.Start.String()),
		zap.String("end", cmd.End.String()),
		zap.Int("days", len(dates)),
	)

	catalog, err := s.recipes.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, errors.NewDatabaseError("load recipe catalog", err)
	}

	since := s.Today().AddDays(-s.config.RecencyWindowDays)
	used, err := s.history.FindUsedRecipeIDs(ctx, cmd.UserID, since)
	if err != nil {
		span.RecordError(err)
		return nil, errors.NewDatabaseError("load usage history", err)
	}

	result := s.generator.Generate(dates, cmd.Targets, catalog, used)

	for _, sf := range result.Shortfalls {
		s.metrics.RecordShortfall(sf.Slot, sf.Role)
	}
	if len(result.Shortfalls) > 0 {
		s.logger.Info("Recipe pool smaller than requested",
			zap.String("user_id", cmd.UserID),
			zap.Int("short_cells", len(result.Shortfalls)),
			zap.Int("requested", result.Requested),
			zap.Int("drawn", result.Drawn),
		)
	}
	s.metrics.ObserveGeneration(len(dates), result.Requested, result.Drawn, time.Since(start))

	span.SetAttributes(
		attribute.Int("planner.days", len(dates)),
		attribute.Int("planner.catalog_size", len(catalog)),
		attribute.Int("planner.excluded", len(used)),
		attribute.Int("planner.drawn", result.Drawn),
	)

	return result.Calendar, nil
}

// Save stores every non-empty cell of the calendar as a plan entry
func (s *Service) Save(ctx context.Context, cmd inbound.SavePlanCommand) (int, error) {
	ctx, span := s.tracer.Start(ctx, "mealplan.Save")
	defer span.End()

	if cmd.UserID == "" {
		return 0, errors.NewUnauthorizedError("")
	}
	for _, d := range cmd.Calendar.Dates() {
		if _, err := mealplan.ParseDate(string(d)); err != nil {
			return 0, errors.NewValidationError(err.Error()).WithMetadata("date", string(d))
		}
	}

	entries := cmd.Calendar.Entries(cmd.UserID)
	if len(entries) == 0 {
		return 0, nil
	}

	ids := cmd.Calendar.RecipeIDs()
	found, err := s.recipes.FindByIDs(ctx, ids)
	if err != nil {
		return 0, errors.NewDatabaseError("load planned recipes", err)
	}
	if len(found) != len(ids) {
		known := make(map[string]struct{}, len(found))
		for _, r := range found {
			known[r.ID().String()] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := known[id.String()]; !ok {
				return 0, errors.NewRecipeNotFoundError(id.String())
			}
		}
	}

	saved, err := s.plans.Save(ctx, entries)
	if err != nil {
		span.RecordError(err)
		return 0, errors.NewDatabaseError("save plan entries", err)
	}

	s.metrics.RecordSavedEntries(saved)
	s.logger.Info("Meal plan saved",
		zap.String("user_id", cmd.UserID),
		zap.Int("submitted", len(entries)),
		zap.Int("saved", saved),
	)

	return saved, nil
}

// Delete removes one plan entry. A missing entry is not an error.
func (s *Service) Delete(ctx context.Context, cmd inbound.DeleteEntryCommand) error {
	if cmd.UserID == "" {
		return errors.NewUnauthorizedError("")
	}

	key := mealplan.EntryKey{UserID: cmd.UserID, Date: cmd.Date, Slot: cmd.Slot, RecipeID: cmd.RecipeID}
	entry := mealplan.PlanEntry{UserID: key.UserID, Date: key.Date, Slot: key.Slot, RecipeID: key.RecipeID}
	if err := entry.Validate(); err != nil {
		return errors.NewValidationError(err.Error())
	}

	deleted, err := s.plans.Delete(ctx, key)
	if err != nil {
		return errors.NewDatabaseError("delete plan entry", err)
	}

	if !deleted {
		s.logger.Debug("No plan entry to delete",
			zap.String("user_id", cmd.UserID),
			zap.String("date", cmd.Date.String()),
			zap.String("slot", string(cmd.Slot)),
		)
	}

	return nil
}

// Query returns the user's persisted calendar with a key for every date
// in [start, end]
func (s *Service) Query(ctx context.Context, userID string, start, end mealplan.Date) (mealplan.Calendar, error) {
	if userID == "" {
		return nil, errors.NewUnauthorizedError("")
	}
	dates, appErr := s.dateRange(start, end, 0)
	if appErr != nil {
		return nil, appErr
	}

	entries, err := s.plans.FindRange(ctx, userID, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("query plan entries", err)
	}

	return mealplan.CalendarFrom(dates, entries), nil
}

// RollingWindow returns the persisted calendar that starts on the first
// day of the week HistoryWeeks before today and spans WindowDays days
func (s *Service) RollingWindow(ctx context.Context, userID string, weekStartsOn time.Weekday) (*inbound.PlanWindowDTO, error) {
	if userID == "" {
		return nil, errors.NewUnauthorizedError("")
	}
	if weekStartsOn < time.Sunday || weekStartsOn > time.Saturday {
		weekStartsOn = time.Sunday
	}

	start := mealplan.StartOfWeek(s.Today().AddDays(-7*s.config.HistoryWeeks), weekStartsOn)
	end := start.AddDays(s.config.WindowDays - 1)

	entries, err := s.plans.FindRange(ctx, userID, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("query plan entries", err)
	}

	return &inbound.PlanWindowDTO{
		Start:    start,
		End:      end,
		Calendar: mealplan.CalendarFrom(mealplan.Range(start, end), entries),
	}, nil
}

// dateRange validates [start, end] and expands it. maxDays <= 0 means no cap.
func (s *Service) dateRange(start, end mealplan.Date, maxDays int) ([]mealplan.Date, *errors.AppError) {
	for _, d := range []mealplan.Date{start, end} {
		if _, err := mealplan.ParseDate(string(d)); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if end.Before(start) {
		return nil, errors.NewValidationError(mealplan.ErrInvalidRange.Error())
	}
	if maxDays > 0 && mealplan.DaysBetween(start, end)+1 > maxDays {
		return nil, errors.NewValidationError(mealplan.ErrRangeTooLong.Error()).
			WithMetadata("max_days", maxDays)
	}
	return mealplan.Range(start, end), nil
}

var _ inbound.MealPlanService = (*Service)(nil)
