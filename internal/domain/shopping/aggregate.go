// Package shopping turns planned recipes into a consolidated shopping list.
package shopping

import (
	"strings"

	"github.com/weeklydish/planner/internal/domain/recipe"
)

// ShoppingListItem is one line of the shopping list. At most one of the
// structured pair (TotalAmount, Unit) and AmountText is set; both are nil
// when no contributing line had a quantity.
type ShoppingListItem struct {
	Name        string   `json:"name"`
	TotalAmount *float64 `json:"total_amount"`
	Unit        *string  `json:"unit"`
	AmountText  *string  `json:"amount_text"`
	// Lines is how many ingredient lines were merged into the item
	Lines int `json:"lines"`
}

// Aggregate groups the ingredient lines of recipes by exact name and merges
// each group. Items come out in the order their name was first seen, so a
// fixed input always yields the same list. A recipe listed twice counts
// twice.
func Aggregate(recipes []*recipe.Recipe) []ShoppingListItem {
	var order []string
	groups := make(map[string][]recipe.Quantity)

	for _, r := range recipes {
		if r == nil {
			continue
		}
		for _, line := range r.Ingredients() {
			if _, seen := groups[line.Name]; !seen {
				order = append(order, line.Name)
			}
			groups[line.Name] = append(groups[line.Name], line.Quantity)
		}
	}

	items := make([]ShoppingListItem, 0, len(order))
	for _, name := range order {
		items = append(items, Merge(name, groups[name]))
	}
	return items
}

// Merge combines the quantities of one ingredient:
//
//  1. all structured with one unit: the amounts are summed
//  2. otherwise the first free text, if any, becomes AmountText
//  3. otherwise structured amounts are subtotalled per unit in first-seen
//     unit order and joined with " + " into AmountText, e.g. "200g + 1袋"
//  4. otherwise (nothing known) only the name is returned
func Merge(name string, quantities []recipe.Quantity) ShoppingListItem {
	item := ShoppingListItem{Name: name, Lines: len(quantities)}
	if len(quantities) == 0 {
		return item
	}

	if total, unit, ok := sumUniform(quantities); ok {
		item.TotalAmount = &total
		item.Unit = &unit
		return item
	}

	for _, q := range quantities {
		if q.Kind() == recipe.QuantityFreeText {
			text := q.Text()
			item.AmountText = &text
			return item
		}
	}

	if text := subtotalsByUnit(quantities); text != "" {
		item.AmountText = &text
	}
	return item
}

// sumUniform sums the amounts when every quantity is structured with the
// same unit
func sumUniform(quantities []recipe.Quantity) (float64, string, bool) {
	unit := quantities[0].Unit()
	var total float64
	for _, q := range quantities {
		if !q.IsStructured() || q.Unit() != unit {
			return 0, "", false
		}
		total += q.Amount()
	}
	return total, unit, true
}

func subtotalsByUnit(quantities []recipe.Quantity) string {
	var units []string
	sums := make(map[string]float64)
	for _, q := range quantities {
		if !q.IsStructured() {
			continue
		}
		if _, ok := sums[q.Unit()]; !ok {
			units = append(units, q.Unit())
		}
		sums[q.Unit()] += q.Amount()
	}

	parts := make([]string, 0, len(units))
	for _, u := range units {
		parts = append(parts, recipe.Structured(sums[u], u).String())
	}
	return strings.Join(parts, " + ")
}
