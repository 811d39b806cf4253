package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"core/internal/model"

	"go.uber.org/zap"
)

// fakeOutbox records every outbound message in order.
type fakeOutbox struct {
	mu       sync.Mutex
	texts    []string
	listings []*model.DisplayPayload
}

func (o *fakeOutbox) SendText(text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.texts = append(o.texts, text)
	return nil
}

func (o *fakeOutbox) SendListing(payload *model.DisplayPayload) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listings = append(o.listings, payload)
	return nil
}

func (o *fakeOutbox) textAt(i int) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if i >= len(o.texts) {
		return ""
	}
	return o.texts[i]
}

// fakeSearcher returns a fixed result set or error for every query.
type fakeSearcher struct {
	items []model.ListingItem
	err   error
}

func (s *fakeSearcher) Search(_ context.Context, _ string) (*model.StructuredQuery, []model.ListingItem, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	query := &model.StructuredQuery{
		Category:  model.CategoryForSale,
		SearchURL: "https://www.yad2.co.il/realestate/forsale?city=5000",
		APIURL:    "https://gw.yad2.co.il/realestate-feed/forsale/map?city=5000",
	}
	return query, s.items, nil
}

// fakePresenter renders a trivial payload from the listing token.
type fakePresenter struct{}

func (fakePresenter) Format(item model.ListingItem, index, total int) (*model.DisplayPayload, error) {
	return &model.DisplayPayload{
		Text: fmt.Sprintf("%s %d/%d", item.Token, index+1, total),
	}, nil
}

// fakeRecorder collects recorded reactions.
type fakeRecorder struct {
	mu      sync.Mutex
	records []string
}

func (r *fakeRecorder) Record(_ context.Context, chatID int64, token string, action string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, fmt.Sprintf("%d:%s:%s", chatID, token, action))
	return nil
}

func listings(n int) []model.ListingItem {
	items := make([]model.ListingItem, n)
	for i := range items {
		items[i] = model.ListingItem{Token: fmt.Sprintf("tok%d", i)}
	}
	return items
}

// runScript feeds the events to a fresh controller and runs it to
// completion. The channel is closed after the last event, which ends
// the dialogue if it is still waiting.
func runScript(t *testing.T, searcher Searcher, recorder FeedbackRecorder, events ...model.UserEvent) (*fakeOutbox, *Controller) {
	t.Helper()
	ch := make(chan model.UserEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)

	outbox := &fakeOutbox{}
	ctrl := NewController(7, ch, outbox, searcher, fakePresenter{}, recorder, zap.NewNop())
	ctrl.Run(context.Background())
	return outbox, ctrl
}

func TestController_FullCycleToExhaustion(t *testing.T) {
	outbox, ctrl := runScript(t, &fakeSearcher{items: listings(2)}, nil,
		model.FreeText("apartment in tel aviv"),
		model.Navigation(model.NavNext),
		model.Navigation(model.NavNext),
	)

	if ctrl.State() != StateExited {
		t.Errorf("Expected final state %v, got %v", StateExited, ctrl.State())
	}
	if len(outbox.listings) != 2 {
		t.Fatalf("Expected 2 presented listings, got %d", len(outbox.listings))
	}
	if outbox.listings[0].Text != "tok0 1/2" || outbox.listings[1].Text != "tok1 2/2" {
		t.Errorf("Unexpected presentation order: %q, %q",
			outbox.listings[0].Text, outbox.listings[1].Text)
	}

	// prompt, found, no-more, prompt again, then channel close.
	if got := outbox.textAt(0); got != msgPrompt {
		t.Errorf("Expected prompt first, got %q", got)
	}
	if got := outbox.textAt(1); !strings.Contains(got, "Found <b>2</b>") {
		t.Errorf("Expected found message, got %q", got)
	}
	if got := outbox.textAt(2); got != msgNoMore {
		t.Errorf("Expected exhaustion message, got %q", got)
	}
	if got := outbox.textAt(3); got != msgPrompt {
		t.Errorf("Expected a fresh prompt after exhaustion, got %q", got)
	}
}

func TestController_NoResultsStaysInQueryState(t *testing.T) {
	outbox, _ := runScript(t, &fakeSearcher{items: nil},
		nil,
		model.FreeText("castle on the moon"),
		model.Cancel(),
	)

	if got := outbox.textAt(1); !strings.Contains(got, "No real estate listings found") {
		t.Errorf("Expected no-results message, got %q", got)
	}
	if got := outbox.textAt(1); !strings.Contains(got, "https://www.yad2.co.il/realestate/forsale?city=5000") {
		t.Errorf("Expected the search URL in the no-results message, got %q", got)
	}
	// A fresh prompt follows, proving the dialogue stayed alive.
	if got := outbox.textAt(2); got != msgPrompt {
		t.Errorf("Expected a fresh prompt after no results, got %q", got)
	}
	if len(outbox.listings) != 0 {
		t.Errorf("Expected no presented listings, got %d", len(outbox.listings))
	}
}

func TestController_SearchErrorRecovers(t *testing.T) {
	outbox, _ := runScript(t, &fakeSearcher{err: errors.New("synthesis failed")},
		nil,
		model.FreeText("anything"),
		model.Cancel(),
	)

	if got := outbox.textAt(1); got != msgSearchFailed {
		t.Errorf("Expected apology after search failure, got %q", got)
	}
	if got := outbox.textAt(2); got != msgPrompt {
		t.Errorf("Expected a fresh prompt after failure, got %q", got)
	}
}

func TestController_CancelDuringPresentation(t *testing.T) {
	outbox, ctrl := runScript(t, &fakeSearcher{items: listings(3)}, nil,
		model.FreeText("apartment"),
		model.Navigation(model.NavNext),
		model.Cancel(),
	)

	if ctrl.State() != StateExited {
		t.Errorf("Expected final state %v, got %v", StateExited, ctrl.State())
	}
	if len(outbox.listings) != 2 {
		t.Errorf("Expected 2 presented listings before cancel, got %d", len(outbox.listings))
	}
	last := outbox.textAt(len(outbox.texts) - 1)
	if last != msgExit {
		t.Errorf("Expected exit confirmation last, got %q", last)
	}
}

func TestController_UnknownInputDuringPresentation(t *testing.T) {
	outbox, _ := runScript(t, &fakeSearcher{items: listings(2)}, nil,
		model.FreeText("apartment"),
		model.FreeText("what do I do now?"),
		model.Cancel(),
	)

	found := false
	for _, text := range outbox.texts {
		if text == msgGuidance {
			found = true
		}
	}
	if !found {
		t.Error("Expected guidance message for free text during presentation")
	}
	if len(outbox.listings) != 1 {
		t.Errorf("Expected the cursor not to move on unknown input, got %d listings", len(outbox.listings))
	}
}

func TestController_LikeAndDislikeRecorded(t *testing.T) {
	recorder := &fakeRecorder{}
	_, _ = runScript(t, &fakeSearcher{items: listings(3)}, recorder,
		model.FreeText("apartment"),
		model.Navigation(model.NavLike),
		model.Navigation(model.NavDislike),
		model.Navigation(model.NavNext),
	)

	want := []string{"7:tok0:like", "7:tok1:dislike"}
	if len(recorder.records) != len(want) {
		t.Fatalf("Expected %d recorded reactions, got %d: %v", len(want), len(recorder.records), recorder.records)
	}
	for i, w := range want {
		if recorder.records[i] != w {
			t.Errorf("Record %d: expected %q, got %q", i, w, recorder.records[i])
		}
	}
}

func TestController_ContextCancellationStops(t *testing.T) {
	ch := make(chan model.UserEvent)
	outbox := &fakeOutbox{}
	ctrl := NewController(7, ch, outbox, &fakeSearcher{}, fakePresenter{}, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ctrl.Run(ctx)

	if ctrl.State() != StateExited {
		t.Errorf("Expected state %v after context cancellation, got %v", StateExited, ctrl.State())
	}
}
