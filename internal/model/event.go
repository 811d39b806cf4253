package model

// EventKind tags the variants of UserEvent.
type EventKind int

const (
	EventFreeText EventKind = iota
	EventNavigation
	EventCancel
)

// NavAction is a user-issued control event during presentation.
type NavAction string

const (
	NavNext    NavAction = "next"
	NavLike    NavAction = "like"
	NavDislike NavAction = "dislike"
)

// UserEvent is one inbound event from the chat transport.
// Text is set for EventFreeText, Action for EventNavigation.
type UserEvent struct {
	Kind   EventKind
	Text   string
	Action NavAction
}

// FreeText builds a free-text message event.
func FreeText(text string) UserEvent {
	return UserEvent{Kind: EventFreeText, Text: text}
}

// Navigation builds a navigation action event.
func Navigation(action NavAction) UserEvent {
	return UserEvent{Kind: EventNavigation, Action: action}
}

// Cancel builds a cancel command event.
func Cancel() UserEvent {
	return UserEvent{Kind: EventCancel}
}
