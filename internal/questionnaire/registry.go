package questionnaire

import (
	"sync"

	"github.com/HendryAvila/tether/internal/assessment"
	"go.uber.org/zap"
)

// Registry keeps one in-progress Presenter per user between tool calls.
type Registry struct {
	bank   *assessment.Bank
	scorer Classifier
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Presenter
}

// NewRegistry creates an empty Registry.
func NewRegistry(bank *assessment.Bank, scorer Classifier, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		bank:     bank,
		scorer:   scorer,
		logger:   logger,
		sessions: make(map[string]*Presenter),
	}
}

// Start begins a fresh questionnaire for userID, discarding any unfinished
// one. onTaken is passed through to the Presenter.
func (r *Registry) Start(userID string, onTaken func()) (*Presenter, error) {
	p, err := New(r.bank, r.scorer, onTaken)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	_, replaced := r.sessions[userID]
	r.sessions[userID] = p
	r.mu.Unlock()

	if replaced {
		r.logger.Debug("restarted questionnaire", zap.String("user_id", userID))
	}
	return p, nil
}

// Get returns the user's in-progress Presenter, if any.
func (r *Registry) Get(userID string) (*Presenter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.sessions[userID]
	return p, ok
}

// Remove drops the user's Presenter, typically after a successful Finish.
func (r *Registry) Remove(userID string) {
	r.mu.Lock()
	delete(r.sessions, userID)
	r.mu.Unlock()
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
