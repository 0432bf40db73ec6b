package metrics

// Prometheus metrics for training sessions

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the Prometheus metrics a session reports.
type Collector struct {
	gatherer prometheus.Gatherer

	Actions    *prometheus.CounterVec
	Started    *prometheus.CounterVec
	Finalized  *prometheus.CounterVec
	FinalScore *prometheus.HistogramVec
	LiveScore  prometheus.Gauge
	Deliveries *prometheus.CounterVec
}

// NewCollector registers session metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	actions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nettrainer_actions_total",
		Help: "Accepted action log entries, labeled by kind.",
	}, []string{"kind"}), "nettrainer_actions_total")
	if err != nil {
		return nil, err
	}

	started, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nettrainer_troubleshooting_attempts_total",
		Help: "Troubleshooting attempts started, labeled by scenario.",
	}, []string{"scenario"}), "nettrainer_troubleshooting_attempts_total")
	if err != nil {
		return nil, err
	}

	finalized, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nettrainer_sessions_finalized_total",
		Help: "Sessions that produced a final evaluation, labeled by scenario and outcome.",
	}, []string{"scenario", "outcome"}), "nettrainer_sessions_finalized_total")
	if err != nil {
		return nil, err
	}

	finalScore, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nettrainer_final_score",
		Help:    "Distribution of final evaluation scores.",
		Buckets: []float64{10, 25, 40, 50, 60, 75, 90, 100},
	}, []string{"scenario"}), "nettrainer_final_score")
	if err != nil {
		return nil, err
	}

	live, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "nettrainer_live_score",
		Help: "Running score of the current session.",
	}), "nettrainer_live_score")
	if err != nil {
		return nil, err
	}

	deliveries, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nettrainer_report_deliveries_total",
		Help: "Evaluation result deliveries, labeled by result (ok or error).",
	}, []string{"result"}), "nettrainer_report_deliveries_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:   gatherer,
		Actions:    actions,
		Started:    started,
		Finalized:  finalized,
		FinalScore: finalScore,
		LiveScore:  live,
		Deliveries: deliveries,
	}, nil
}

// ObserveAction records an accepted action and the live score after it.
func (c *Collector) ObserveAction(kind string, liveScore int) {
	if c == nil {
		return
	}
	c.Actions.WithLabelValues(kind).Inc()
	c.LiveScore.Set(float64(liveScore))
}

// ObserveAttempt records a troubleshooting attempt for scenario.
func (c *Collector) ObserveAttempt(scenario string) {
	if c == nil {
		return
	}
	c.Started.WithLabelValues(scenario).Inc()
}

// ObserveFinish records the final evaluation of a session.
func (c *Collector) ObserveFinish(scenario string, score int, passed bool) {
	if c == nil {
		return
	}
	outcome := "unresolved"
	if passed {
		outcome = "resolved"
	}
	c.Finalized.WithLabelValues(scenario, outcome).Inc()
	c.FinalScore.WithLabelValues(scenario).Observe(float64(score))
	c.LiveScore.Set(float64(score))
}

// ObserveDelivery records the outcome of a report delivery.
func (c *Collector) ObserveDelivery(err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.Deliveries.WithLabelValues(result).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Server serves /metrics until Shutdown is called.
type Server struct {
	srv *http.Server
	err chan error
}

// Serve starts an HTTP server for the collector on addr.
func Serve(addr string, c *Collector) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	s := &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		err: make(chan error, 1),
	}
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.err <- err
		}
		close(s.err)
	}()
	return s
}

// Err reports the listener error, if the server stopped on its own.
func (s *Server) Err() <-chan error {
	return s.err
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
