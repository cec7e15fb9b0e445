// Package classification decides which library category a raw release
// name belongs to. The pipeline is strictly ordered: cached result,
// spam filter, adult-code detector, TV-episode detector, movie default,
// with an optional AI escalation for ambiguous names.
package classification

// Category is a library destination label.
type Category string

const (
	CategoryJAV   Category = "JAV"
	CategoryShows Category = "Shows"
	CategoryMovie Category = "Movie"
	CategorySkip  Category = "Skip"
)

// ParseCategory maps a stored or AI-provided label onto a Category.
// Unrecognized labels fall back to CategoryMovie so a corrupt value can
// never route files outside the library.
func ParseCategory(label string) Category {
	switch Category(label) {
	case CategoryJAV, CategoryShows, CategoryMovie, CategorySkip:
		return Category(label)
	}
	return CategoryMovie
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryJAV, CategoryShows, CategoryMovie, CategorySkip:
		return true
	}
	return false
}
