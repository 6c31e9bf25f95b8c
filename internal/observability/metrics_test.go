package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/skyforge/observer-engine/core"
)

func TestCollectorRecordsJourneyEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewObserverCollector(reg)
	if err != nil {
		t.Fatalf("NewObserverCollector: %v", err)
	}

	collector.JourneyStarted(core.TrajectoryLinear)
	collector.JourneyStarted(core.TrajectoryLinear)
	collector.JourneyStarted(core.TrajectoryGreatCircle)
	collector.JourneyCompleted()

	if got := testutil.ToFloat64(collector.JourneysStarted.WithLabelValues("linear")); got != 2 {
		t.Fatalf("journeys_started{linear} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.JourneysStarted.WithLabelValues("greatcircle")); got != 1 {
		t.Fatalf("journeys_started{greatcircle} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.JourneysCompleted); got != 1 {
		t.Fatalf("journeys_completed = %v, want 1", got)
	}
}

func TestCollectorRecordsFrameSwitches(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewObserverCollector(reg)
	if err != nil {
		t.Fatalf("NewObserverCollector: %v", err)
	}

	collector.FrameSwitched(core.CoordSysBodyFixed)
	collector.FrameSwitched(core.CoordSysPhaseLock)
	collector.FrameSwitched(core.CoordSysPhaseLock)

	if got := testutil.ToFloat64(collector.FrameSwitches.WithLabelValues("phaselock")); got != 2 {
		t.Fatalf("frame_switches{phaselock} = %v, want 2", got)
	}
}

func TestCollectorObservesUpdates(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewObserverCollector(reg)
	if err != nil {
		t.Fatalf("NewObserverCollector: %v", err)
	}

	collector.ObserveUpdate(2 * time.Millisecond)
	collector.ObserveUpdate(7 * time.Millisecond)

	if count := histogramSampleCount(t, reg, "observer_update_duration_seconds", nil); count != 2 {
		t.Fatalf("update duration sample_count = %d, want 2", count)
	}
}

func TestCollectorRegistersAgainstSameRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewObserverCollector(reg); err != nil {
		t.Fatalf("first NewObserverCollector: %v", err)
	}
	// A second collector must reuse the already-registered metrics instead
	// of failing.
	if _, err := NewObserverCollector(reg); err != nil {
		t.Fatalf("second NewObserverCollector: %v", err)
	}
}

func TestMetricsHandlerExposesObserverMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewObserverCollector(reg)
	if err != nil {
		t.Fatalf("NewObserverCollector: %v", err)
	}
	collector.JourneyStarted(core.TrajectoryCircularOrbit)
	collector.FrameSwitched(core.CoordSysChase)
	collector.SetSimTime(2451545.0)
	collector.ObserveUpdate(time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"observer_journeys_started_total",
		"observer_journeys_completed_total",
		"observer_frame_switches_total",
		"observer_update_duration_seconds",
		"observer_sim_time_jd",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
	if !strings.Contains(body, "2.451545e+06") {
		t.Fatalf("/metrics output missing sim time gauge value: %s", body)
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
