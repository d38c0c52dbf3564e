package domain

// Categories is the fixed set of listing categories
var Categories = []string{
	"trending", "rooms", "iconic-cities", "mountains", "beaches", "castles",
	"pools", "lakefront", "countryside", "camping", "cabins", "farms",
	"tiny-homes", "treehouses", "boats", "windmills", "caves", "domes",
	"luxe", "design", "vineyards", "golfing", "skiing", "surfing",
	"national-parks", "desert", "arctic", "tropical", "historical",
}

// IsCategory reports whether c is a known category
func IsCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Cancellation policies
var CancellationPolicies = []string{"flexible", "moderate", "strict"}

// SortMode orders listing search results
type SortMode string

const (
	SortNewest    SortMode = "newest"
	SortPriceLow  SortMode = "price-low"
	SortPriceHigh SortMode = "price-high"
	SortRating    SortMode = "rating"
)

// ParseSortMode falls back to newest-first for unknown values
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortPriceLow, SortPriceHigh, SortRating:
		return SortMode(s)
	default:
		return SortNewest
	}
}

// Listing defaults used when an approved application carries no property details
const (
	DefaultListingTitle  = "Property"
	DefaultPropertyType  = "apartment"
	DefaultListingGuests = 1
	DefaultCancellation  = "flexible"
	DefaultCategory      = "rooms"
	DefaultCountry       = "India"
)

// PopularPlaces seeds search suggestions when nothing matches
var PopularPlaces = []string{
	"Goa", "Manali", "Jaipur", "Udaipur", "Kerala", "Rishikesh",
	"Shimla", "Ooty", "Coorg", "Pondicherry", "Darjeeling", "Mumbai",
}
