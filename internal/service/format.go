package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"core/internal/model"
)

// Static map rendering parameters.
const (
	mapBaseURL = "https://maps.googleapis.com/maps/api/staticmap"
	mapZoom    = 15
	mapSize    = "600x400"
)

// PresentationError reports an attempt to render a listing index that
// is outside the fetched result set.
type PresentationError struct {
	Index int
	Total int
}

func (e *PresentationError) Error() string {
	return fmt.Sprintf("listing index %d out of range (total %d)", e.Index, e.Total)
}

// Formatter renders a listing into a display payload. Formatting is
// pure; the same listing and position always produce the same payload.
type Formatter struct {
	mapsKey     string
	itemBaseURL string
}

// NewFormatter creates a formatter bound to the static map key and the
// listing page base URL.
func NewFormatter(mapsKey, itemBaseURL string) *Formatter {
	return &Formatter{
		mapsKey:     mapsKey,
		itemBaseURL: strings.TrimRight(itemBaseURL, "/"),
	}
}

// Format renders the listing at the given zero-based position out of
// total into its display payload.
func (f *Formatter) Format(item model.ListingItem, index, total int) (*model.DisplayPayload, error) {
	if index < 0 || index >= total {
		return nil, &PresentationError{Index: index, Total: total}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏠 <b>%s</b>\n", item.AdditionalDetails.Property.Text)
	fmt.Fprintf(&b, "📍 %s\n", item.Address.City.Text)
	if item.Address.Neighborhood != nil {
		fmt.Fprintf(&b, "🏘️ %s\n", item.Address.Neighborhood.Text)
	}
	if item.Address.Street != nil {
		line := item.Address.Street.Text
		if item.Address.House != nil && item.Address.House.Number != nil {
			line = fmt.Sprintf("%s %d", line, *item.Address.House.Number)
		}
		fmt.Fprintf(&b, "🛣️ %s\n", line)
	}
	if item.Address.House != nil && item.Address.House.Floor != nil {
		fmt.Fprintf(&b, "🧱 Floor %d\n", *item.Address.House.Floor)
	}
	fmt.Fprintf(&b, "💰 %s ₪\n", formatPrice(item.Price))
	fmt.Fprintf(&b, "🛏️ %s rooms\n", strconv.FormatFloat(item.AdditionalDetails.RoomsCount, 'f', -1, 64))
	fmt.Fprintf(&b, "📏 %s m²\n", strconv.FormatFloat(item.AdditionalDetails.SquareMeter, 'f', -1, 64))
	fmt.Fprintf(&b, "📄 Listing %d of %d", index+1, total)

	images := []string{f.mapImageURL(item.Address.Coords)}
	if item.Metadata.CoverImage != "" {
		images = append(images, item.Metadata.CoverImage)
	}

	return &model.DisplayPayload{
		Text:      b.String(),
		ImageURLs: images,
		Controls: model.NavControls{
			NextLabel:    "➡️ Next",
			LikeLabel:    "👍 Like",
			DislikeLabel: "👎 Dislike",
			ViewLabel:    "🔗 View Listing",
			ListingURL:   f.itemBaseURL + "/" + item.Token,
		},
	}, nil
}

// mapImageURL builds the static map URL with a single red marker on
// the listing coordinates. Parameter order is fixed.
func (f *Formatter) mapImageURL(coords model.Coordinates) string {
	center := fmt.Sprintf("%v,%v", coords.Lat, coords.Lon)
	marker := url.QueryEscape(fmt.Sprintf("color:red|%v,%v", coords.Lat, coords.Lon))
	return fmt.Sprintf("%s?center=%s&format=jpg&zoom=%d&size=%s&markers=%s&key=%s",
		mapBaseURL, center, mapZoom, mapSize, marker, f.mapsKey)
}

// formatPrice groups digits in thousands with commas.
func formatPrice(price int) string {
	s := strconv.Itoa(price)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
