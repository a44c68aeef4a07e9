// Package portal implements the lookup screen as a state machine: input
// validation, result selection, out-of-order response handling and recent
// searches. It performs no I/O of its own; fetching and persistence are
// injected.
package portal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/starford/sikabut/internal/checklist"
	"github.com/starford/sikabut/internal/history"
	"github.com/starford/sikabut/internal/models"
)

// Fetcher looks up the records for a trimmed, non-empty file number.
type Fetcher interface {
	Lookup(ctx context.Context, fileNumber string) ([]models.FileRecord, error)
}

// Ticket identifies a search request. Only the latest issued ticket may
// complete.
type Ticket uint64

// View is an immutable snapshot of the session for rendering.
type View struct {
	State        State
	Query        string
	Message      string
	Record       *models.FileRecord
	Completeness checklist.Completeness
	Layout       checklist.Layout
	// Searching is true while a request is in flight; the search control is
	// disabled.
	Searching bool
	Recent    []string
}

// Session is the state of one lookup screen.
type Session struct {
	fetcher Fetcher
	history *history.History
	brand   Branding
	logger  *slog.Logger

	mu      sync.Mutex
	state   State
	query   string
	message string
	record  *models.FileRecord
	latest  Ticket
	recent  []string
}

// Option configures a Session.
type Option func(*Session)

// WithHistory enables recent searches backed by h.
func WithHistory(h *history.History) Option {
	return func(s *Session) { s.history = h }
}

// WithBranding overrides the copy and theme.
func WithBranding(b Branding) Option {
	return func(s *Session) { s.brand = b.WithDefaults() }
}

// WithLogger sets the logger used for non-fatal history failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates an idle session.
func NewSession(f Fetcher, opts ...Option) *Session {
	s := &Session{
		fetcher: f,
		brand:   DefaultBranding(),
		logger:  slog.Default(),
		recent:  []string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Branding returns the effective branding.
func (s *Session) Branding() Branding { return s.brand }

// LoadHistory reads the persisted recent searches. Failures are logged and
// leave the list empty.
func (s *Session) LoadHistory(ctx context.Context) {
	if s.history == nil {
		return
	}
	entries, err := s.history.Entries(ctx)
	if err != nil {
		s.logger.Warn("load history failed", slog.String("error", err.Error()))
		return
	}
	s.mu.Lock()
	s.recent = entries
	s.mu.Unlock()
}

// ClearHistory forgets every recent search.
func (s *Session) ClearHistory(ctx context.Context) {
	if s.history != nil {
		if err := s.history.Clear(ctx); err != nil {
			s.logger.Warn("clear history failed", slog.String("error", err.Error()))
			return
		}
	}
	s.mu.Lock()
	s.recent = []string{}
	s.mu.Unlock()
}

// Begin validates raw and starts a search. It returns false, with the
// session in Warning, when the trimmed input is empty. Every call
// supersedes in-flight requests.
func (s *Session) Begin(ctx context.Context, raw string) (Ticket, bool) {
	query := strings.TrimSpace(raw)

	s.mu.Lock()
	s.latest++
	s.record = nil
	if query == "" {
		s.state = Warning
		s.query = ""
		s.message = s.brand.Copy.Warning
		s.mu.Unlock()
		return 0, false
	}
	s.state = Searching
	s.query = query
	s.message = ""
	t := s.latest
	s.mu.Unlock()

	s.remember(ctx, query)
	return t, true
}

func (s *Session) remember(ctx context.Context, query string) {
	if s.history == nil {
		return
	}
	entries, err := s.history.Push(ctx, query)
	if err != nil {
		s.logger.Warn("save history failed", slog.String("error", err.Error()))
		return
	}
	s.mu.Lock()
	s.recent = entries
	s.mu.Unlock()
}

// Complete applies the outcome of the request identified by t. It reports
// false, changing nothing, when t has been superseded.
func (s *Session) Complete(t Ticket, records []models.FileRecord, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.latest || s.state != Searching {
		return false
	}
	switch {
	case err != nil:
		s.logger.Debug("lookup failed", slog.String("file_number", s.query), slog.String("error", err.Error()))
		s.state = Errored
		s.message = s.brand.Copy.Error
	case len(records) > 0:
		rec := records[0]
		s.state = Found
		s.record = &rec
		s.message = ""
	default:
		s.state = NotFound
		s.message = fmt.Sprintf(s.brand.Copy.NotFound, s.query)
	}
	return true
}

// Search runs Begin, the fetch and Complete synchronously.
func (s *Session) Search(ctx context.Context, raw string) View {
	t, ok := s.Begin(ctx, raw)
	if !ok {
		return s.Snapshot()
	}
	records, err := s.fetcher.Lookup(ctx, strings.TrimSpace(raw))
	s.Complete(t, records, err)
	return s.Snapshot()
}

// Reset returns to Idle, clearing input and results, and drops any
// in-flight request.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	s.state = Idle
	s.query = ""
	s.message = ""
	s.record = nil
}

// Snapshot returns the current view.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		State:     s.state,
		Query:     s.query,
		Message:   s.message,
		Searching: s.state == Searching,
		Recent:    append([]string(nil), s.recent...),
	}
	if s.record != nil {
		rec := *s.record
		v.Record = &rec
		v.Completeness = rec.Completeness()
		v.Layout = v.Completeness.Layout()
	}
	return v
}
