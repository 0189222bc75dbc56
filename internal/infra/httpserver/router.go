package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appaudit "github.com/bryanwahyu/growthaudit/internal/application/audit"
	domain "github.com/bryanwahyu/growthaudit/internal/domain/audit"
	"github.com/bryanwahyu/growthaudit/internal/i18n"
	"github.com/bryanwahyu/growthaudit/internal/logging"
	"github.com/bryanwahyu/growthaudit/internal/middleware"
)

// Options configures the HTTP surface around the audit service.
type Options struct {
	AllowOrigins []string
	APIKeys      map[string]string
	Limiter      *middleware.RateLimiter // nil disables rate limiting
	Checkers     map[string]middleware.HealthChecker
	Metrics      *middleware.Metrics // nil gets a fresh set of counters
}

type Router struct {
	auditSvc *appaudit.Service
	metrics  *middleware.Metrics
}

func NewRouter(auditSvc *appaudit.Service, opts Options) http.Handler {
	metrics := opts.Metrics
	if metrics == nil {
		metrics = middleware.NewMetrics()
	}
	r := &Router{auditSvc: auditSvc, metrics: metrics}
	mux := chi.NewRouter()

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Authorization", "Content-Type", middleware.SessionHeader},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Session)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(metrics.Middleware)
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	if opts.Limiter != nil {
		mux.Use(opts.Limiter.Middleware)
	}

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/healthz/live", middleware.LivenessHandler)
	mux.Get("/healthz/ready", middleware.ReadinessHandler(opts.Checkers))
	mux.Get("/metrics", metrics.Handler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/audit", r.wrap(r.handleAudit))
		rt.Get("/history", r.wrap(r.handleHistory))
		rt.Delete("/history", r.wrap(r.handleClearHistory))
		rt.Get("/history/{id}", r.wrap(r.handleReplay))
		rt.Get("/session", r.wrap(r.handleSession))
		rt.Post("/session/unlock", r.wrap(r.handleUnlock))
		rt.Post("/session/consent", r.wrap(r.handleConsent))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest is a client error whose message is safe to echo.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

// localized carries the language the error message should be written in.
type localized struct {
	err  error
	lang domain.Language
}

func (e localized) Error() string { return e.err.Error() }
func (e localized) Unwrap() error { return e.err }

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		lang := requestLang(req, "")
		var le localized
		if errors.As(err, &le) {
			lang = le.lang
		}
		msg := func(k i18n.Key) errorBody { return errorBody{Error: i18n.Message(lang, k), Code: string(k)} }

		var (
			br badRequest
			ae *domain.AnalysisError
		)
		switch {
		case errors.As(err, &br):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: br.msg})
		case errors.Is(err, domain.ErrEmptyInput):
			writeJSON(w, http.StatusBadRequest, msg(i18n.EmptyInput))
		case errors.Is(err, domain.ErrLocked):
			writeJSON(w, http.StatusForbidden, msg(i18n.Locked))
		case errors.Is(err, domain.ErrHistoryNotFound):
			writeJSON(w, http.StatusNotFound, msg(i18n.NotFound))
		case errors.Is(err, domain.ErrSuperseded):
			writeJSON(w, http.StatusConflict, msg(i18n.Busy))
		case errors.Is(err, domain.ErrQuotaExceeded):
			writeJSON(w, http.StatusTooManyRequests, msg(i18n.ErrorMsg))
		case errors.As(err, &ae):
			writeJSON(w, http.StatusBadGateway, msg(i18n.ErrorMsg))
		default:
			logging.Log.WithError(err).WithField("path", req.URL.Path).Error("request failed")
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLang picks explicit, then ?lang=, then Accept-Language.
func requestLang(req *http.Request, explicit string) domain.Language {
	if explicit != "" {
		return domain.ResolveLanguage(explicit)
	}
	if q := req.URL.Query().Get("lang"); q != "" {
		return domain.ResolveLanguage(q)
	}
	return domain.ResolveAcceptLanguage(req.Header.Get("Accept-Language"))
}

type auditResponse struct {
	appaudit.AnalyzeResult
	Lang domain.Language `json:"lang"`
	RTL  bool            `json:"rtl"`
}

// POST /v1/audit
// Body: {"input": "@handle", "platform": "instagram", "lang": "en"}
func (r *Router) handleAudit(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Input    string `json:"input"`
		Platform string `json:"platform"`
		Lang     string `json:"lang"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{msg: "invalid JSON body"}
	}
	lang := requestLang(req, body.Lang)

	// scored exactly as submitted; the stored display copy is cleaned by the service
	input := body.Input
	if err := middleware.ValidateInput(input); err != nil {
		return badRequest{msg: err.Error()}
	}
	platform := domain.ParsePlatform(body.Platform)

	done := r.metrics.AnalysisStarted()
	res, err := r.auditSvc.Analyze(req.Context(), appaudit.AnalyzeCommand{
		Session:  middleware.GetSessionFromContext(req.Context()),
		Input:    input,
		Platform: platform,
		Lang:     lang,
	})
	done(outcomeOf(err))
	if err != nil {
		return localized{err: err, lang: lang}
	}

	writeJSON(w, http.StatusOK, auditResponse{AnalyzeResult: res, Lang: lang, RTL: lang.RTL()})
	return nil
}

func outcomeOf(err error) middleware.Outcome {
	switch {
	case err == nil:
		return middleware.OutcomeOK
	case errors.Is(err, domain.ErrSuperseded):
		return middleware.OutcomeSuperseded
	case errors.Is(err, domain.ErrEmptyInput), errors.Is(err, domain.ErrLocked):
		return middleware.OutcomeRejected
	default:
		return middleware.OutcomeFailed
	}
}

// GET /v1/history?limit=5
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	list, err := r.auditSvc.History(req.Context(), middleware.GetSessionFromContext(req.Context()))
	if err != nil {
		return err
	}
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, _ := strconv.Atoi(raw)
		if n = middleware.ValidateLimit(n, len(list), 100); n < len(list) {
			list = list[:n]
		}
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

// DELETE /v1/history
func (r *Router) handleClearHistory(w http.ResponseWriter, req *http.Request) error {
	if err := r.auditSvc.ClearHistory(req.Context(), middleware.GetSessionFromContext(req.Context())); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/history/{id}
func (r *Router) handleReplay(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateHistoryID(id); err != nil {
		return badRequest{msg: err.Error()}
	}
	item, err := r.auditSvc.Replay(req.Context(), middleware.GetSessionFromContext(req.Context()), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, item)
	return nil
}

// GET /v1/session
func (r *Router) handleSession(w http.ResponseWriter, req *http.Request) error {
	st, err := r.auditSvc.Session(req.Context(), middleware.GetSessionFromContext(req.Context()))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, st)
	return nil
}

// POST /v1/session/unlock
func (r *Router) handleUnlock(w http.ResponseWriter, req *http.Request) error {
	session := middleware.GetSessionFromContext(req.Context())
	if err := r.auditSvc.Unlock(req.Context(), session); err != nil {
		return err
	}
	return r.handleSession(w, req)
}

// POST /v1/session/consent
func (r *Router) handleConsent(w http.ResponseWriter, req *http.Request) error {
	session := middleware.GetSessionFromContext(req.Context())
	if err := r.auditSvc.AcceptCookies(req.Context(), session); err != nil {
		return err
	}
	return r.handleSession(w, req)
}
