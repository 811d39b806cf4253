package model

// TextValue wraps the feed's {"text": "..."} objects.
type TextValue struct {
	Text string `json:"text"`
}

// Coordinates is a geo point as returned by the feed.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// House describes the optional house part of an address.
type House struct {
	Number *int `json:"number,omitempty"`
	Floor  *int `json:"floor,omitempty"`
}

// Address is the listing location. Only the city and the coordinates
// are guaranteed by the feed; everything else may be absent.
type Address struct {
	City         TextValue   `json:"city"`
	Neighborhood *TextValue  `json:"neighborhood,omitempty"`
	Street       *TextValue  `json:"street,omitempty"`
	House        *House      `json:"house,omitempty"`
	Coords       Coordinates `json:"coords"`
}

// AdditionalDetails carries the property type label and the size facts.
type AdditionalDetails struct {
	Property    TextValue `json:"property"`
	RoomsCount  float64   `json:"roomsCount"`
	SquareMeter float64   `json:"squareMeter"`
}

// ListingMetadata holds presentation extras attached by the feed.
type ListingMetadata struct {
	CoverImage string `json:"coverImage"`
}

// ListingItem is one property record (a map marker) returned by the
// feed. Items are immutable after fetch.
type ListingItem struct {
	Address           Address           `json:"address"`
	AdType            string            `json:"adType"`
	OrderID           int64             `json:"orderId"`
	Price             int               `json:"price"`
	Priority          int               `json:"priority"`
	SubcategoryID     int               `json:"subcategoryId"`
	Token             string            `json:"token"`
	AdditionalDetails AdditionalDetails `json:"additionalDetails"`
	Metadata          ListingMetadata   `json:"metaData"`
}
