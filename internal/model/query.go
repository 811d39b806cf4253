package model

// Listing categories understood by the feed.
const (
	CategoryRent    = "rent"
	CategoryForSale = "forsale"
)

// PropertyTypeParking is the property-type code for standalone parking
// spots. Queries about parking as the main subject use it instead of
// the parking amenity flag.
const PropertyTypeParking = "30"

// StructuredQuery is the typed, schema-validated filter object derived
// from one free-text request. Every field except the category, the
// subcategory and the two URLs is optional; the completion contract
// still requires all keys to be present (possibly null).
type StructuredQuery struct {
	Category          string   `json:"category"`
	MinPrice          *int     `json:"minPrice"`
	MaxPrice          *int     `json:"maxPrice"`
	MinRooms          *float64 `json:"minRooms"`
	MaxRooms          *float64 `json:"maxRooms"`
	MinFloor          *int     `json:"minFloor"`
	MaxFloor          *int     `json:"maxFloor"`
	MinSquareMeter    *int     `json:"minSquareMeter"`
	MaxSquareMeter    *int     `json:"maxSquareMeter"`
	ImageOnly         *bool    `json:"imageOnly"`
	PriceOnly         *bool    `json:"priceOnly"`
	Settlements       *bool    `json:"settlements"`
	PriceDropped      *bool    `json:"priceDropped"`
	Brokerage         *bool    `json:"brokerage"`
	NewFromContractor *bool    `json:"newFromContractor"`
	Property          *string  `json:"property"` // comma-separated property type IDs
	Parking           *bool    `json:"parking"`
	Elevator          *bool    `json:"elevator"`
	AirConditioner    *bool    `json:"airConditioner"`
	Balcony           *bool    `json:"balcony"`
	Shelter           *bool    `json:"shelter"`
	Bars              *bool    `json:"bars"`
	Warehouse         *bool    `json:"warehouse"`
	Accessibility     *bool    `json:"accessibility"`
	Renovated         *bool    `json:"renovated"`
	Furniture         *bool    `json:"furniture"`
	AssetExclusive    *bool    `json:"assetExclusive"`
	TopArea           *int     `json:"topArea"`
	Area              *int     `json:"area"`
	City              *int     `json:"city"`
	Subcategory       string   `json:"subcategory"`
	PropertyCondition *string  `json:"propertyCondition"` // comma-separated condition IDs

	// Derived URLs, always present and well-formed.
	SearchURL string `json:"searchUrl"`
	APIURL    string `json:"apiUrl"`
}
