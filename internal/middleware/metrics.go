package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Outcome is how a single analysis ended.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeFailed     Outcome = "failed"     // analyzer or reply error
	OutcomeSuperseded Outcome = "superseded" // replaced by a newer submission
	OutcomeRejected   Outcome = "rejected"   // empty input, locked gate
)

// Metrics counts requests and analyses. The zero value is not ready; use NewMetrics.
type Metrics struct {
	requestsTotal      atomic.Uint64
	requestsInProgress atomic.Int64
	requestsSuccess    atomic.Uint64
	requestsFailed     atomic.Uint64

	analysesRunning atomic.Int64
	analyses        map[Outcome]*atomic.Uint64

	startTime time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		analyses: map[Outcome]*atomic.Uint64{
			OutcomeOK:         new(atomic.Uint64),
			OutcomeFailed:     new(atomic.Uint64),
			OutcomeSuperseded: new(atomic.Uint64),
			OutcomeRejected:   new(atomic.Uint64),
		},
		startTime: time.Now(),
	}
}

// AnalysisStarted marks one analysis as running. Call the returned func exactly
// once with its outcome.
func (m *Metrics) AnalysisStarted() func(Outcome) {
	m.analysesRunning.Add(1)
	return func(o Outcome) {
		m.analysesRunning.Add(-1)
		if c, ok := m.analyses[o]; ok {
			c.Add(1)
		}
	}
}

// Snapshot is the JSON body served on /metrics.
type Snapshot struct {
	RequestsTotal      uint64            `json:"requests_total"`
	RequestsInProgress int64             `json:"requests_in_progress"`
	RequestsSuccess    uint64            `json:"requests_success"`
	RequestsFailed     uint64            `json:"requests_failed"`
	AnalysesTotal      uint64            `json:"analyses_total"`
	AnalysesRunning    int64             `json:"analyses_running"`
	Analyses           map[string]uint64 `json:"analyses"`
	UptimeSeconds      float64           `json:"uptime_seconds"`
	Memory             MemoryStats       `json:"memory"`
	Goroutines         int               `json:"goroutines"`
}

type MemoryStats struct {
	AllocBytes      uint64 `json:"alloc_bytes"`
	TotalAllocBytes uint64 `json:"total_alloc_bytes"`
	SysBytes        uint64 `json:"sys_bytes"`
	NumGC           uint32 `json:"num_gc"`
}

func (m *Metrics) Snapshot() Snapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	s := Snapshot{
		RequestsTotal:      m.requestsTotal.Load(),
		RequestsInProgress: m.requestsInProgress.Load(),
		RequestsSuccess:    m.requestsSuccess.Load(),
		RequestsFailed:     m.requestsFailed.Load(),
		AnalysesRunning:    m.analysesRunning.Load(),
		Analyses:           make(map[string]uint64, len(m.analyses)),
		UptimeSeconds:      time.Since(m.startTime).Seconds(),
		Memory: MemoryStats{
			AllocBytes:      ms.Alloc,
			TotalAllocBytes: ms.TotalAlloc,
			SysBytes:        ms.Sys,
			NumGC:           ms.NumGC,
		},
		Goroutines: runtime.NumGoroutine(),
	}
	for o, c := range m.analyses {
		n := c.Load()
		s.Analyses[string(o)] = n
		s.AnalysesTotal += n
	}
	return s
}

// Middleware tracks request counts by status class.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestsTotal.Add(1)
		m.requestsInProgress.Add(1)
		defer m.requestsInProgress.Add(-1)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			m.requestsSuccess.Add(1)
		} else {
			m.requestsFailed.Add(1)
		}
	})
}

// Handler serves the snapshot as JSON.
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m.Snapshot())
}
