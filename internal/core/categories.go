package core

// Category is static reference data; users never create categories.
type Category struct {
	ID    string
	Name  string
	Icon  string
	Color string
}

// UnknownCategory is the total-lookup fallback for ids that are not part
// of the set matching a transaction's type. Rendering it is always safe.
var UnknownCategory = Category{ID: "unknown", Name: "Unknown", Icon: "HelpCircle", Color: "#64748b"}

var IncomeCategories = []Category{
	{ID: "salary", Name: "Salary", Icon: "Briefcase", Color: "#059669"},
	{ID: "business", Name: "Business", Icon: "TrendingUp", Color: "#2563EB"},
	{ID: "freelance", Name: "Freelance", Icon: "Briefcase", Color: "#7C3AED"},
	{ID: "gift_in", Name: "Gifts", Icon: "Gift", Color: "#DB2777"},
	{ID: "other_in", Name: "Other", Icon: "HelpCircle", Color: "#475569"},
}

var ExpenseCategories = []Category{
	{ID: "groceries", Name: "Groceries", Icon: "ShoppingBag", Color: "#D97706"},
	{ID: "fuel", Name: "Fuel", Icon: "Fuel", Color: "#DC2626"},
	{ID: "rent", Name: "Rent/Mortgage", Icon: "Home", Color: "#059669"},
	{ID: "utilities", Name: "Utilities", Icon: "Zap", Color: "#2563EB"},
	{ID: "airtime", Name: "Airtime/Data", Icon: "Smartphone", Color: "#7C3AED"},
	{ID: "transport", Name: "Transport", Icon: "Car", Color: "#4F46E5"},
	{ID: "dining", Name: "Dining Out", Icon: "Utensils", Color: "#E11D48"},
	{ID: "health", Name: "Health", Icon: "HeartPulse", Color: "#0D9488"},
	{ID: "leisure", Name: "Leisure", Icon: "Coffee", Color: "#EA580C"},
	{ID: "other_ex", Name: "Other", Icon: "HelpCircle", Color: "#475569"},
}

// CategoriesFor returns the category set matching a transaction type.
func CategoriesFor(t TransactionType) []Category {
	if t == Income {
		return IncomeCategories
	}
	return ExpenseCategories
}

// CategoryFor resolves a category id against the set matching the given
// type. The lookup is total: unknown ids resolve to UnknownCategory.
func CategoryFor(t TransactionType, id string) Category {
	for _, c := range CategoriesFor(t) {
		if c.ID == id {
			return c
		}
	}
	return UnknownCategory
}

// CategoryExists reports whether id belongs to the set matching t.
func CategoryExists(t TransactionType, id string) bool {
	for _, c := range CategoriesFor(t) {
		if c.ID == id {
			return true
		}
	}
	return false
}
