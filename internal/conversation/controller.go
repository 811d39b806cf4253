package conversation

import (
	"context"
	"fmt"

	"core/internal/model"

	"go.uber.org/zap"
)

// Searcher runs one free-text query cycle.
type Searcher interface {
	Search(ctx context.Context, freeText string) (*model.StructuredQuery, []model.ListingItem, error)
}

// Presenter renders a listing at a position into a display payload.
type Presenter interface {
	Format(item model.ListingItem, index, total int) (*model.DisplayPayload, error)
}

// Outbox sends messages back to one chat.
type Outbox interface {
	SendText(text string) error
	SendListing(payload *model.DisplayPayload) error
}

// FeedbackRecorder persists like/dislike reactions. A nil recorder
// disables persistence without changing the flow.
type FeedbackRecorder interface {
	Record(ctx context.Context, chatID int64, listingToken string, action string) error
}

// State is the position of one chat in the search dialogue.
type State int

const (
	StateAwaitingQuery State = iota
	StatePresenting
	StateAwaitingAction
	StateExhausted
	StateExited
)

func (s State) String() string {
	switch s {
	case StateAwaitingQuery:
		return "awaiting_query"
	case StatePresenting:
		return "presenting"
	case StateAwaitingAction:
		return "awaiting_action"
	case StateExhausted:
		return "exhausted"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// User-facing dialogue texts.
const (
	msgPrompt        = "📝 Please describe the real estate you are looking for, or type /cancel to exit."
	msgExit          = "❌ Exiting real estate search."
	msgNoResults     = "😔 No real estate listings found for your criteria.\n🔍 Search URL: %s"
	msgFound         = "🎉 Found <b>%d</b> listings for you! 🏡\n🔗 <a href=\"%s\">View on Yad2</a>"
	msgNoMore        = "🚫 No more listings available."
	msgGuidance      = "🤖 Please use the provided buttons or type /cancel to exit."
	msgSearchFailed  = "⚠️ An error occurred while processing your request. Please try again later."
	msgPresentFailed = "⚠️ Error displaying the real estate listing. Please try again later."
)

// Controller drives the search dialogue for a single chat. It consumes
// user events from a channel and writes replies through the outbox;
// all state lives here, never in the transport.
type Controller struct {
	chatID    int64
	events    <-chan model.UserEvent
	outbox    Outbox
	searcher  Searcher
	presenter Presenter
	feedback  FeedbackRecorder
	logger    *zap.Logger

	state   State
	session *model.SearchSession
}

// NewController creates a controller in the awaiting-query state.
func NewController(chatID int64, events <-chan model.UserEvent, outbox Outbox, searcher Searcher, presenter Presenter, feedback FeedbackRecorder, logger *zap.Logger) *Controller {
	return &Controller{
		chatID:    chatID,
		events:    events,
		outbox:    outbox,
		searcher:  searcher,
		presenter: presenter,
		feedback:  feedback,
		logger:    logger.With(zap.Int64("chat_id", chatID)),
	}
}

// State returns the current dialogue state.
func (c *Controller) State() State {
	return c.state
}

// Run executes the dialogue until the user cancels, the event channel
// closes or the context is cancelled.
func (c *Controller) Run(ctx context.Context) {
	c.state = StateAwaitingQuery
	for c.state != StateExited {
		switch c.state {
		case StateAwaitingQuery:
			c.awaitQuery(ctx)
		case StatePresenting:
			c.present()
		case StateAwaitingAction:
			c.awaitAction(ctx)
		case StateExhausted:
			c.exhaust()
		}
	}
	c.logger.Info("conversation ended")
}

func (c *Controller) awaitQuery(ctx context.Context) {
	c.send(msgPrompt)

	ev, ok := c.wait(ctx)
	if !ok {
		return
	}
	switch ev.Kind {
	case model.EventCancel:
		c.exit()
	case model.EventFreeText:
		c.runSearch(ctx, ev.Text)
	default:
		// Navigation taps outside a presentation cycle restate the
		// prompt on the next loop iteration.
	}
}

func (c *Controller) runSearch(ctx context.Context, freeText string) {
	query, items, err := c.searcher.Search(ctx, freeText)
	if err != nil {
		c.logger.Warn("search failed", zap.Error(err))
		c.send(msgSearchFailed)
		return
	}
	if len(items) == 0 {
		c.send(fmt.Sprintf(msgNoResults, query.SearchURL))
		return
	}

	c.send(fmt.Sprintf(msgFound, len(items), query.SearchURL))
	c.session = model.NewSearchSession(items)
	c.state = StatePresenting
}

func (c *Controller) present() {
	item, ok := c.session.Current()
	if !ok {
		c.state = StateExhausted
		return
	}

	payload, err := c.presenter.Format(item, c.session.Cursor(), c.session.Total())
	if err != nil {
		c.logger.Error("failed to format listing",
			zap.Int("cursor", c.session.Cursor()),
			zap.Error(err))
		c.send(msgPresentFailed)
		c.state = StateAwaitingAction
		return
	}
	if err := c.outbox.SendListing(payload); err != nil {
		c.logger.Error("failed to send listing", zap.Error(err))
	}
	c.state = StateAwaitingAction
}

func (c *Controller) awaitAction(ctx context.Context) {
	ev, ok := c.wait(ctx)
	if !ok {
		return
	}
	switch ev.Kind {
	case model.EventCancel:
		c.exit()
	case model.EventNavigation:
		if ev.Action == model.NavLike || ev.Action == model.NavDislike {
			c.recordFeedback(ctx, ev.Action)
		}
		c.session.Advance()
		if c.session.Exhausted() {
			c.state = StateExhausted
		} else {
			c.state = StatePresenting
		}
	default:
		c.send(msgGuidance)
	}
}

func (c *Controller) exhaust() {
	c.send(msgNoMore)
	c.session = nil
	c.state = StateAwaitingQuery
}

func (c *Controller) exit() {
	c.send(msgExit)
	c.session = nil
	c.state = StateExited
}

// recordFeedback persists a reaction when a recorder is configured.
// Persistence failures never interrupt the dialogue.
func (c *Controller) recordFeedback(ctx context.Context, action model.NavAction) {
	if c.feedback == nil {
		return
	}
	item, ok := c.session.Current()
	if !ok {
		return
	}
	if err := c.feedback.Record(ctx, c.chatID, item.Token, string(action)); err != nil {
		c.logger.Warn("failed to record feedback",
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

// wait blocks for the next user event. It returns false when the
// context is cancelled or the event channel closes, after moving the
// controller to the exited state.
func (c *Controller) wait(ctx context.Context) (model.UserEvent, bool) {
	select {
	case <-ctx.Done():
		c.state = StateExited
		return model.UserEvent{}, false
	case ev, ok := <-c.events:
		if !ok {
			c.state = StateExited
			return model.UserEvent{}, false
		}
		return ev, true
	}
}

func (c *Controller) send(text string) {
	if err := c.outbox.SendText(text); err != nil {
		c.logger.Error("failed to send message", zap.Error(err))
	}
}
