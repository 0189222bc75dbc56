package audit

import (
	"context"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/growthaudit/internal/application"
	domain "github.com/bryanwahyu/growthaudit/internal/domain/audit"
	"github.com/bryanwahyu/growthaudit/internal/domain/kv"
	"github.com/bryanwahyu/growthaudit/internal/i18n"
	"github.com/bryanwahyu/growthaudit/internal/logging"
)

// DefaultSession is used when a caller does not identify itself.
const DefaultSession = "anonymous"

var displayPolicy = bluemonday.StrictPolicy()

// Service implements the audit use-cases on top of an Analyzer and a kv.Store.
// Safe for concurrent use. Per session only the newest submission may
// complete: starting a new Analyze cancels the one in flight.
type Service struct {
	Analyzer      domain.Analyzer
	Store         kv.Store
	Clock         application.Clock
	HistoryLimit  int
	RequireUnlock bool
	StepDelay     time.Duration
	ConsentDelay  time.Duration
	FollowURL     string
	NewID         func() string

	mu       sync.Mutex
	inflight map[string]*submission
}

type submission struct {
	cancel context.CancelFunc
}

// AnalyzeCommand is one user submission.
type AnalyzeCommand struct {
	Session  string
	Input    string
	Platform domain.Platform
	Lang     domain.Language
	OnStep   func(step string) // optional progress callback
}

// AnalyzeResult is the analysis plus the id it was stored under.
type AnalyzeResult struct {
	HistoryID string `json:"historyId"`
	domain.AnalysisResult
}

// Analyze runs one audit and records it in the session history.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (AnalyzeResult, error) {
	if strings.TrimSpace(cmd.Input) == "" {
		return AnalyzeResult{}, domain.ErrEmptyInput
	}
	session := sessionOrDefault(cmd.Session)

	if s.RequireUnlock {
		unlocked, err := s.flag(ctx, session, kv.KeyUnlocked)
		if err != nil {
			return AnalyzeResult{}, err
		}
		if !unlocked {
			return AnalyzeResult{}, domain.ErrLocked
		}
	}

	runCtx, sub := s.begin(ctx, session)
	defer s.end(session, sub)

	log := logging.Log.WithFields(logrus.Fields{
		"session":  session,
		"platform": cmd.Platform,
		"lang":     cmd.Lang,
	})

	if err := s.playSteps(runCtx, cmd); err != nil {
		return AnalyzeResult{}, s.abortErr(session, sub, err)
	}

	res, err := s.Analyzer.Analyze(runCtx, cmd.Input, cmd.Platform, cmd.Lang)
	if err != nil {
		if !s.isCurrent(session, sub) {
			return AnalyzeResult{}, domain.ErrSuperseded
		}
		log.WithError(err).Warn("analysis failed")
		return AnalyzeResult{}, domain.NewAnalysisError("", err)
	}
	if err := res.Validate(); err != nil {
		if !s.isCurrent(session, sub) {
			return AnalyzeResult{}, domain.ErrSuperseded
		}
		log.WithError(err).Warn("analyzer returned an invalid result")
		return AnalyzeResult{}, domain.NewAnalysisError("", err)
	}

	item := domain.HistoryItem{
		ID:        s.newID(),
		Input:     displayInput(cmd.Input),
		Platform:  cmd.Platform,
		Lang:      cmd.Lang,
		Timestamp: s.now(),
		Result:    res,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[session] != sub {
		return AnalyzeResult{}, domain.ErrSuperseded
	}
	list, err := s.loadHistory(ctx, session)
	if err != nil {
		return AnalyzeResult{}, err
	}
	if err := s.saveHistory(ctx, session, InsertHistory(list, item, s.HistoryLimit)); err != nil {
		return AnalyzeResult{}, err
	}
	log.WithField("score", res.GrowthScore).Debug("analysis stored")

	return AnalyzeResult{HistoryID: item.ID, AnalysisResult: res}, nil
}

// begin registers a submission and cancels the one it supersedes.
func (s *Service) begin(ctx context.Context, session string) (context.Context, *submission) {
	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == nil {
		s.inflight = make(map[string]*submission)
	}
	if prev := s.inflight[session]; prev != nil {
		prev.cancel()
	}
	sub := &submission{cancel: cancel}
	s.inflight[session] = sub
	return runCtx, sub
}

func (s *Service) end(session string, sub *submission) {
	s.mu.Lock()
	if s.inflight[session] == sub {
		delete(s.inflight, session)
	}
	s.mu.Unlock()
	sub.cancel()
}

func (s *Service) isCurrent(session string, sub *submission) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[session] == sub
}

func (s *Service) abortErr(session string, sub *submission, err error) error {
	if !s.isCurrent(session, sub) {
		return domain.ErrSuperseded
	}
	return err
}

// playSteps reports the progress labels, pausing StepDelay between them.
func (s *Service) playSteps(ctx context.Context, cmd AnalyzeCommand) error {
	if cmd.OnStep == nil && s.StepDelay <= 0 {
		return nil
	}
	for _, step := range i18n.Steps(cmd.Lang) {
		if cmd.OnStep != nil {
			cmd.OnStep(step)
		}
		if s.StepDelay <= 0 {
			continue
		}
		t := time.NewTimer(s.StepDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

// displayInput drops markup but keeps the literal text, so "tom&jerry" stays
// "tom&jerry" instead of its entity-escaped form.
func displayInput(raw string) string {
	return html.UnescapeString(displayPolicy.Sanitize(strings.TrimSpace(raw)))
}

func sessionOrDefault(session string) string {
	if session = strings.TrimSpace(session); session == "" {
		return DefaultSession
	}
	return session
}
