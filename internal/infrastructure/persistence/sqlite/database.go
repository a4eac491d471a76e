// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"context"
	"fmt"

	"github.com/weeklydish/planner/internal/domain/recipe"
	gormModels "github.com/weeklydish/planner/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase creates and configures the SQLite database
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	// a single connection keeps :memory: databases alive and serializes writers
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

type seedLine struct {
	name   string
	amount *float64
	unit   string
	text   string
}

type seedRecipe struct {
	title    string
	role     recipe.CourseRole
	category recipe.Category
	lines    []seedLine
	steps    []string
}

func g(v float64) *float64 { return &v }

var demoRecipes = []seedRecipe{
	{
		title: "肉じゃが", role: recipe.CourseRoleMain, category: recipe.CategoryJapanese,
		lines: []seedLine{
			{name: "牛肉", amount: g(200), unit: "g"},
			{name: "じゃがいも", amount: g(3), unit: "個"},
			{name: "玉ねぎ", amount: g(1), unit: "個"},
			{name: "醤油", amount: g(3), unit: "大さじ"},
		},
		steps: []string{"材料を切る", "炒めてから煮る"},
	},
	{
		title: "鶏の照り焼き", role: recipe.CourseRoleMain, category: recipe.CategoryJapanese,
		lines: []seedLine{
			{name: "鶏もも肉", amount: g(300), unit: "g"},
			{name: "醤油", amount: g(2), unit: "大さじ"},
			{name: "塩", text: "少々"},
		},
		steps: []string{"鶏肉を焼く", "たれを絡める"},
	},
	{
		title: "麻婆豆腐", role: recipe.CourseRoleMain, category: recipe.CategoryChinese,
		lines: []seedLine{
			{name: "豆腐", amount: g(1), unit: "丁"},
			{name: "ひき肉", amount: g(150), unit: "g"},
			{name: "玉ねぎ", amount: g(2), unit: "個"},
		},
		steps: []string{"ひき肉を炒める", "豆腐を加えて煮る"},
	},
	{
		title: "Chicken stew", role: recipe.CourseRoleMain, category: recipe.CategoryWestern,
		lines: []seedLine{
			{name: "chicken thigh", amount: g(400), unit: "g"},
			{name: "carrot", amount: g(2), unit: ""},
			{name: "salt", text: "to taste"},
		},
		steps: []string{"Brown the chicken", "Simmer with vegetables for 40 minutes"},
	},
	{
		title: "ほうれん草のおひたし", role: recipe.CourseRoleSide, category: recipe.CategoryJapanese,
		lines: []seedLine{
			{name: "ほうれん草", amount: g(1), unit: "束"},
			{name: "かつお節", text: "適量"},
		},
		steps: []string{"茹でて水気を切る"},
	},
	{
		title: "味噌汁", role: recipe.CourseRoleSide, category: recipe.CategoryJapanese,
		lines: []seedLine{
			{name: "味噌", amount: g(2), unit: "大さじ"},
			{name: "豆腐", amount: g(0.5), unit: "丁"},
			{name: "わかめ"},
		},
		steps: []string{"出汁を取る", "味噌を溶く"},
	},
	{
		title: "きんぴらごぼう", role: recipe.CourseRoleSide, category: recipe.CategoryJapanese,
		lines: []seedLine{
			{name: "ごぼう", amount: g(1), unit: "本"},
			{name: "にんじん", amount: g(0.5), unit: "本"},
			{name: "塩", amount: g(1), unit: "g"},
		},
	},
	{
		title: "Green salad", role: recipe.CourseRoleSide, category: recipe.CategoryWestern,
		lines: []seedLine{
			{name: "lettuce", amount: g(1), unit: "head"},
			{name: "olive oil", amount: g(2), unit: "tbsp"},
		},
	},
	{
		title: "中華スープ", role: recipe.CourseRoleSide, category: recipe.CategoryChinese,
		lines: []seedLine{
			{name: "卵", amount: g(1), unit: "個"},
			{name: "玉ねぎ", amount: g(0.5), unit: "個"},
		},
		steps: []string{"スープを温める", "溶き卵を流し入れる"},
	},
}

// SeedDatabase populates an empty catalog with demo recipes
func SeedDatabase(ctx context.Context, db *gorm.DB) (int, error) {
	repo := gormModels.NewRecipeRepository(db)

	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	if count > 0 {
		return 0, nil // Already seeded
	}

	for _, demo := range demoRecipes {
		r, err := recipe.NewRecipe(demo.title, demo.role, demo.category)
		if err != nil {
			return 0, fmt.Errorf("invalid demo recipe %q: %w", demo.title, err)
		}
		for _, l := range demo.lines {
			var unit, text *string
			if l.unit != "" {
				u := l.unit
				unit = &u
			}
			if l.text != "" {
				t := l.text
				text = &t
			}
			if err := r.AddIngredient(recipe.IngredientLine{
				Name:     l.name,
				Quantity: recipe.NewQuantity(l.amount, unit, text),
			}); err != nil {
				return 0, fmt.Errorf("invalid demo ingredient %q: %w", l.name, err)
			}
		}
		for _, s := range demo.steps {
			if err := r.AddStep(s); err != nil {
				return 0, err
			}
		}

		if err := repo.Create(ctx, r); err != nil {
			return 0, fmt.Errorf("failed to create demo recipe: %w", err)
		}
	}

	return len(demoRecipes), nil
}
