package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domain "github.com/bryanwahyu/growthaudit/internal/domain/audit"
	"github.com/bryanwahyu/growthaudit/internal/domain/kv"
	"github.com/bryanwahyu/growthaudit/internal/logging"
)

// DefaultHistoryLimit matches the smaller of the two shipped builds.
const DefaultHistoryLimit = 5

// InsertHistory prepends item and keeps at most limit entries, newest first.
// list is not modified.
func InsertHistory(list []domain.HistoryItem, item domain.HistoryItem, limit int) []domain.HistoryItem {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	n := len(list) + 1
	if n > limit {
		n = limit
	}
	out := make([]domain.HistoryItem, 0, n)
	out = append(out, item)
	for _, it := range list {
		if len(out) == n {
			break
		}
		out = append(out, it)
	}
	return out
}

func (s *Service) loadHistory(ctx context.Context, session string) ([]domain.HistoryItem, error) {
	raw, err := s.Store.Get(ctx, kv.SessionKey(session, kv.KeyHistory))
	if errors.Is(err, kv.ErrNotFound) {
		return []domain.HistoryItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	var list []domain.HistoryItem
	if err := json.Unmarshal(raw, &list); err != nil {
		// corrupt entry: start over rather than lock the session out
		logging.Log.WithError(err).WithField("session", session).Warn("discarding unreadable history")
		return []domain.HistoryItem{}, nil
	}
	return list, nil
}

func (s *Service) saveHistory(ctx context.Context, session string, list []domain.HistoryItem) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if err := s.Store.Set(ctx, kv.SessionKey(session, kv.KeyHistory), b); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// History returns the stored audits, newest first.
func (s *Service) History(ctx context.Context, session string) ([]domain.HistoryItem, error) {
	return s.loadHistory(ctx, sessionOrDefault(session))
}

// Replay returns a stored audit without running the analyzer again.
func (s *Service) Replay(ctx context.Context, session, id string) (domain.HistoryItem, error) {
	list, err := s.loadHistory(ctx, sessionOrDefault(session))
	if err != nil {
		return domain.HistoryItem{}, err
	}
	for _, it := range list {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.HistoryItem{}, domain.ErrHistoryNotFound
}

// ClearHistory drops every stored audit for the session.
func (s *Service) ClearHistory(ctx context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Store.Delete(ctx, kv.SessionKey(sessionOrDefault(session), kv.KeyHistory))
}
