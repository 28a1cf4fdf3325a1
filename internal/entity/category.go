package entity

// Category is one of the three fixed top-level groupings a Place or
// Event belongs to (spec.md §3).
type Category struct {
	Id    Id
	Label string
}

var (
	CategoryNonProfit  = Category{Id: "non-profit", Label: "non-profit"}
	CategoryCommercial = Category{Id: "commercial", Label: "commercial"}
	CategoryEvent      = Category{Id: "event", Label: "event"}
)

// FixedCategories lists the three built-in categories in stable order.
func FixedCategories() []Category {
	return []Category{CategoryNonProfit, CategoryCommercial, CategoryEvent}
}
