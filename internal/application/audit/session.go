package audit

import (
	"context"
	"errors"
	"time"

	"github.com/bryanwahyu/growthaudit/internal/domain/kv"
)

// SessionState is what a client needs to render the unlock gate and the
// consent banner.
type SessionState struct {
	Unlocked       bool   `json:"unlocked"`
	CookieAccepted bool   `json:"cookieAccepted"`
	ConsentDelayMS int64  `json:"consentDelayMs,omitempty"` // only while consent is pending
	FollowURL      string `json:"followURL"`
}

func (s *Service) flag(ctx context.Context, session, key string) (bool, error) {
	v, err := s.Store.Get(ctx, kv.SessionKey(session, key))
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return string(v) == "true", nil
}

func (s *Service) setFlag(ctx context.Context, session, key string) error {
	return s.Store.Set(ctx, kv.SessionKey(session, key), []byte("true"))
}

// Unlock records the follow action for the session.
func (s *Service) Unlock(ctx context.Context, session string) error {
	return s.setFlag(ctx, sessionOrDefault(session), kv.KeyUnlocked)
}

// AcceptCookies records cookie consent for the session.
func (s *Service) AcceptCookies(ctx context.Context, session string) error {
	return s.setFlag(ctx, sessionOrDefault(session), kv.KeyCookieAccepted)
}

// Session reports the gate and consent flags.
func (s *Service) Session(ctx context.Context, session string) (SessionState, error) {
	session = sessionOrDefault(session)
	unlocked, err := s.flag(ctx, session, kv.KeyUnlocked)
	if err != nil {
		return SessionState{}, err
	}
	accepted, err := s.flag(ctx, session, kv.KeyCookieAccepted)
	if err != nil {
		return SessionState{}, err
	}
	st := SessionState{
		Unlocked:       unlocked,
		CookieAccepted: accepted,
		FollowURL:      s.FollowURL,
	}
	if !accepted {
		delay := s.ConsentDelay
		if delay <= 0 {
			delay = 1500 * time.Millisecond
		}
		st.ConsentDelayMS = delay.Milliseconds()
	}
	return st, nil
}
