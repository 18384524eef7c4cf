package core

// Category is one member of the fixed set of spending classifications,
// carrying the display metadata the charts and legends need.
type Category struct {
	Key   string
	Label string
	Icon  string
	Color string
}

// Categories is the static, ordered registry of spending categories.
// The last entry is the designated fallback for unrecognized keys.
var Categories = []Category{
	{Key: "food", Label: "Food & Dining", Icon: "🍔", Color: "#f59e0b"},
	{Key: "transport", Label: "Transportation", Icon: "🚗", Color: "#3b82f6"},
	{Key: "shopping", Label: "Shopping", Icon: "🛍️", Color: "#ec4899"},
	{Key: "bills", Label: "Bills & Utilities", Icon: "💡", Color: "#ef4444"},
	{Key: "entertainment", Label: "Entertainment", Icon: "🎬", Color: "#8b5cf6"},
	{Key: "health", Label: "Health & Fitness", Icon: "💊", Color: "#10b981"},
	{Key: "education", Label: "Education", Icon: "📚", Color: "#6366f1"},
	{Key: "travel", Label: "Travel", Icon: "✈️", Color: "#14b8a6"},
	{Key: "groceries", Label: "Groceries", Icon: "🛒", Color: "#84cc16"},
	{Key: "other", Label: "Other", Icon: "📦", Color: "#6b7280"},
}

// ResolveCategory maps a stored key to its registry definition. It is total:
// keys that match no registry entry resolve to the fallback ("other"), so a
// stale or mistyped stored value never fails a read.
func ResolveCategory(key string) Category {
	for _, c := range Categories {
		if c.Key == key {
			return c
		}
	}
	return Categories[len(Categories)-1]
}

// ValidCategoryKey reports whether key matches a registry entry exactly.
func ValidCategoryKey(key string) bool {
	for _, c := range Categories {
		if c.Key == key {
			return true
		}
	}
	return false
}
