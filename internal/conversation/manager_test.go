package conversation

import (
	"context"
	"testing"
	"time"

	"core/internal/model"

	"go.uber.org/zap"
)

func TestManager_StartAndDispatch(t *testing.T) {
	m := NewManager(&fakeSearcher{items: listings(1)}, fakePresenter{}, nil, zap.NewNop())
	outbox := &fakeOutbox{}

	if !m.Start(context.Background(), 42, outbox) {
		t.Fatal("Expected Start to succeed for a new chat")
	}
	if m.Start(context.Background(), 42, outbox) {
		t.Error("Expected Start to refuse a second dialogue for the same chat")
	}
	if !m.Active(42) {
		t.Error("Expected chat 42 to be active")
	}
	if m.Active(43) {
		t.Error("Expected chat 43 to be inactive")
	}

	if !m.Dispatch(42, model.Cancel()) {
		t.Error("Expected Dispatch to reach the active dialogue")
	}

	// The flow goroutine removes itself once the dialogue exits.
	deadline := time.After(2 * time.Second)
	for m.Active(42) {
		select {
		case <-deadline:
			t.Fatal("Dialogue did not terminate after cancel")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if m.Dispatch(42, model.FreeText("hello")) {
		t.Error("Expected Dispatch to fail after the dialogue ended")
	}
}

func TestManager_Shutdown(t *testing.T) {
	m := NewManager(&fakeSearcher{items: listings(1)}, fakePresenter{}, nil, zap.NewNop())

	for _, chatID := range []int64{1, 2, 3} {
		if !m.Start(context.Background(), chatID, &fakeOutbox{}) {
			t.Fatalf("Expected Start to succeed for chat %d", chatID)
		}
	}

	m.Shutdown()

	deadline := time.After(2 * time.Second)
	for m.Active(1) || m.Active(2) || m.Active(3) {
		select {
		case <-deadline:
			t.Fatal("Dialogues did not terminate after shutdown")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
