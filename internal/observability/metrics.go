package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skyforge/observer-engine/core"
)

// ObserverCollector bundles Prometheus metrics for the observer engine and
// implements core.EventSink so the observer can report state transitions
// directly.
type ObserverCollector struct {
	gatherer prometheus.Gatherer

	JourneysStarted   *prometheus.CounterVec
	JourneysCompleted prometheus.Counter
	FrameSwitches     *prometheus.CounterVec

	UpdateDuration prometheus.Histogram
	SimTime        prometheus.Gauge
}

var _ core.EventSink = (*ObserverCollector)(nil)

// NewObserverCollector registers observer Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewObserverCollector(reg prometheus.Registerer) (*ObserverCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	started := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "observer_journeys_started_total",
		Help: "Total number of journeys started, labeled by trajectory type.",
	}, []string{"trajectory"})
	started, err := registerCounterVec(reg, started, "observer_journeys_started_total")
	if err != nil {
		return nil, err
	}

	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "observer_journeys_completed_total",
		Help: "Total number of journeys that ran to completion.",
	})
	completed, err = registerCounter(reg, completed, "observer_journeys_completed_total")
	if err != nil {
		return nil, err
	}

	switches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "observer_frame_switches_total",
		Help: "Total number of reference frame switches, labeled by coordinate system.",
	}, []string{"coord_sys"})
	switches, err = registerCounterVec(reg, switches, "observer_frame_switches_total")
	if err != nil {
		return nil, err
	}

	updates := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "observer_update_duration_seconds",
		Help:    "Duration of observer update ticks.",
		Buckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 0.01, 0.05},
	})
	updates, err = registerHistogram(reg, updates, "observer_update_duration_seconds")
	if err != nil {
		return nil, err
	}

	simTime, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "observer_sim_time_jd",
		Help: "Current simulation time as a Julian date.",
	}), "observer_sim_time_jd")
	if err != nil {
		return nil, err
	}

	return &ObserverCollector{
		gatherer:          gatherer,
		JourneysStarted:   started,
		JourneysCompleted: completed,
		FrameSwitches:     switches,
		UpdateDuration:    updates,
		SimTime:           simTime,
	}, nil
}

// JourneyStarted implements core.EventSink.
func (c *ObserverCollector) JourneyStarted(traj core.TrajectoryType) {
	if c == nil || c.JourneysStarted == nil {
		return
	}
	c.JourneysStarted.WithLabelValues(traj.String()).Inc()
}

// JourneyCompleted implements core.EventSink.
func (c *ObserverCollector) JourneyCompleted() {
	if c == nil || c.JourneysCompleted == nil {
		return
	}
	c.JourneysCompleted.Inc()
}

// FrameSwitched implements core.EventSink.
func (c *ObserverCollector) FrameSwitched(cs core.CoordinateSystem) {
	if c == nil || c.FrameSwitches == nil {
		return
	}
	c.FrameSwitches.WithLabelValues(cs.String()).Inc()
}

// ObserveUpdate records the duration of one update tick.
func (c *ObserverCollector) ObserveUpdate(d time.Duration) {
	if c == nil || c.UpdateDuration == nil {
		return
	}
	c.UpdateDuration.Observe(d.Seconds())
}

// SetSimTime publishes the current simulation Julian date.
func (c *ObserverCollector) SetSimTime(jd float64) {
	if c == nil || c.SimTime == nil {
		return
	}
	c.SimTime.Set(jd)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *ObserverCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
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

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
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
