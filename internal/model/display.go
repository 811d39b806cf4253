package model

// NavControls describes the inline controls attached to a presented
// listing: three data buttons and one external link.
type NavControls struct {
	NextLabel    string
	LikeLabel    string
	DislikeLabel string
	ViewLabel    string
	ListingURL   string
}

// DisplayPayload is the render-ready form of one listing: an HTML text
// block, 1-2 image URLs (map image first, cover photo when present)
// and the navigation controls.
type DisplayPayload struct {
	Text      string
	ImageURLs []string
	Controls  NavControls
}
