package conversation

import (
	"context"
	"sync"

	"core/internal/model"

	"go.uber.org/zap"
)

// eventBufferSize bounds the per-chat inbound queue. Events beyond it
// are dropped rather than blocking the transport.
const eventBufferSize = 16

type flow struct {
	events chan model.UserEvent
	cancel context.CancelFunc
}

// Manager owns one controller per active chat and routes inbound
// events to it. It replaces transport-level session storage: the
// transport only knows chat IDs, the manager knows dialogue state.
type Manager struct {
	mu    sync.Mutex
	flows map[int64]*flow

	searcher  Searcher
	presenter Presenter
	feedback  FeedbackRecorder
	logger    *zap.Logger
}

// NewManager creates an empty conversation manager.
func NewManager(searcher Searcher, presenter Presenter, feedback FeedbackRecorder, logger *zap.Logger) *Manager {
	return &Manager{
		flows:     make(map[int64]*flow),
		searcher:  searcher,
		presenter: presenter,
		feedback:  feedback,
		logger:    logger,
	}
}

// Start launches a dialogue for the chat. It returns false when a
// dialogue is already active there.
func (m *Manager) Start(ctx context.Context, chatID int64, outbox Outbox) bool {
	m.mu.Lock()
	if _, active := m.flows[chatID]; active {
		m.mu.Unlock()
		return false
	}
	flowCtx, cancel := context.WithCancel(ctx)
	f := &flow{
		events: make(chan model.UserEvent, eventBufferSize),
		cancel: cancel,
	}
	m.flows[chatID] = f
	m.mu.Unlock()

	ctrl := NewController(chatID, f.events, outbox, m.searcher, m.presenter, m.feedback, m.logger)
	go func() {
		defer m.remove(chatID)
		defer cancel()
		ctrl.Run(flowCtx)
	}()

	m.logger.Info("conversation started", zap.Int64("chat_id", chatID))
	return true
}

// Dispatch delivers an event to the chat's dialogue. It returns false
// when no dialogue is active. A full event buffer drops the event.
func (m *Manager) Dispatch(chatID int64, ev model.UserEvent) bool {
	m.mu.Lock()
	f, active := m.flows[chatID]
	m.mu.Unlock()
	if !active {
		return false
	}

	select {
	case f.events <- ev:
	default:
		m.logger.Warn("event buffer full, dropping event",
			zap.Int64("chat_id", chatID))
	}
	return true
}

// Active reports whether the chat has a running dialogue.
func (m *Manager) Active(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, active := m.flows[chatID]
	return active
}

// Shutdown cancels every running dialogue.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for chatID, f := range m.flows {
		f.cancel()
		delete(m.flows, chatID)
	}
}

func (m *Manager) remove(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, chatID)
}
