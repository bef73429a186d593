package enums

import "fmt"

// Category groups suvidha items on the shelf.
type Category string

const (
	CategoryBooks        Category = "Books"
	CategoryManuals      Category = "Manuals"
	CategoryStationery   Category = "Stationery"
	CategoryLabEquipment Category = "Lab Equipment"
	CategoryOthers       Category = "Others"
)

var validCategories = []Category{
	CategoryBooks,
	CategoryManuals,
	CategoryStationery,
	CategoryLabEquipment,
	CategoryOthers,
}

// Categories returns the fixed category list in display order.
func Categories() []Category {
	out := make([]Category, len(validCategories))
	copy(out, validCategories)
	return out
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Category.
func (c Category) IsValid() bool {
	for _, candidate := range validCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategory converts raw input into a Category. Matching is exact.
func ParseCategory(value string) (Category, error) {
	for _, candidate := range validCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}
