package listing

// AllCategories selects every item.
const AllCategories = "all"

// Categorized is implemented by items that belong to one category.
type Categorized interface {
	CategoryOf() string
}

// Categories returns the selectable categories: AllCategories first, then listed in
// first-appearance order with blanks and duplicates dropped.
func Categories(listed []string) []string {
	out := make([]string, 0, len(listed)+1)
	seen := map[string]struct{}{AllCategories: {}}
	out = append(out, AllCategories)
	for _, c := range listed {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Filter returns the items matching selected, in original order. AllCategories
// returns every item. A category with no items yields an empty slice.
func Filter[T Categorized](items []T, selected string) []T {
	if selected == AllCategories {
		return clone(items)
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.CategoryOf() == selected {
			out = append(out, item)
		}
	}
	return out
}

// Normalize keeps selected when it belongs to known and falls back to AllCategories.
func Normalize(selected string, known []string) string {
	for _, k := range known {
		if k == selected {
			return selected
		}
	}
	return AllCategories
}
