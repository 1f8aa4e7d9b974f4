package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/leengari/secindex/internal/engine"
)

// Observer turns engine lifecycle events into Prometheus metrics
type Observer struct {
	statements   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	rowsReturned prometheus.Counter

	mu      sync.Mutex
	started map[string]time.Time // tx id -> lex start
}

// NewObserver registers the statement metrics with reg. Pass
// prometheus.DefaultRegisterer to expose them on the default handler.
func NewObserver(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)
	return &Observer{
		// by keyword and outcome
		statements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "secidx_statements_total",
				Help: "Total number of executed statements",
			},
			[]string{"statement", "status"},
		),
		// lex start to result or error
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "secidx_statement_duration_seconds",
				Help:    "Statement latency in seconds, from lexing to result",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"statement"},
		),
		rowsReturned: factory.NewCounter(prometheus.CounterOpts{
			Name: "secidx_rows_returned_total",
			Help: "Total number of result rows returned",
		}),
		started: make(map[string]time.Time),
	}
}

// OnEvent implements engine.Observer
func (o *Observer) OnEvent(event engine.Event) {
	switch event.Type {
	case engine.EventLexStart:
		o.mu.Lock()
		o.started[event.TxID] = event.Timestamp
		o.mu.Unlock()

	case engine.EventExecEnd:
		o.finish(event, "ok")
		if stats, ok := event.Data.(engine.ExecStats); ok {
			o.rowsReturned.Add(float64(stats.RowsReturned))
		}

	case engine.EventError:
		o.finish(event, "error")
	}
}

func (o *Observer) finish(event engine.Event, status string) {
	stmt := strings.ToLower(event.Statement)
	if stmt == "" {
		stmt = "unparsed"
	}

	o.mu.Lock()
	start, ok := o.started[event.TxID]
	delete(o.started, event.TxID)
	o.mu.Unlock()

	o.statements.WithLabelValues(stmt, status).Inc()
	if ok {
		o.duration.WithLabelValues(stmt).Observe(event.Timestamp.Sub(start).Seconds())
	}
}
