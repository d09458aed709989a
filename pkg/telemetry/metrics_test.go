package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/lattice/pkg/layout"
	"github.com/vango-dev/lattice/pkg/reactive"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func counterValue(t *testing.T, families map[string]*dto.MetricFamily, name string) float64 {
	t.Helper()
	f, ok := families[name]
	if !ok {
		t.Fatalf("metric %s not registered", name)
	}
	var sum float64
	for _, m := range f.GetMetric() {
		sum += m.GetCounter().GetValue()
	}
	return sum
}

func TestMetricsPropagation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	rt := reactive.NewRuntime(reactive.WithObserver(m))
	a := reactive.NewBindingIn(rt, 1)
	b := reactive.Map(a, func(v int) int { return v * 2 })
	c := reactive.Map(a, func(v int) int { return v + 1 })
	sum := reactive.Map(reactive.Zip(b, c), func(p reactive.Pair[int, int]) int { return p.First + p.Second })

	g := sum.Watch(func(int) {})
	defer g.Release()

	a.Set(2)
	a.Set(3)

	families := gather(t, reg)
	if got := counterValue(t, families, "lattice_propagation_batches_total"); got != 2 {
		t.Errorf("batches = %g, want 2", got)
	}
	if got := counterValue(t, families, "lattice_recomputations_total"); got != 8 {
		t.Errorf("recomputations = %g, want 8", got)
	}
	if got := counterValue(t, families, "lattice_notifications_total"); got != 2 {
		t.Errorf("notifications = %g, want 2", got)
	}

	nodes := families["lattice_propagation_batch_nodes"].GetMetric()[0].GetHistogram()
	if nodes.GetSampleCount() != 2 || nodes.GetSampleSum() != 10 {
		t.Errorf("batch nodes histogram count=%d sum=%g", nodes.GetSampleCount(), nodes.GetSampleSum())
	}
}

func TestMetricsPanickedLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	m.ObservePropagation(reactive.PropagationStats{Nodes: 1})
	m.ObservePropagation(reactive.PropagationStats{Nodes: 3, Panicked: true})

	f := gather(t, reg)["lattice_propagation_batches_total"]
	got := map[string]float64{}
	for _, metric := range f.GetMetric() {
		for _, l := range metric.GetLabel() {
			if l.GetName() == "panicked" {
				got[l.GetValue()] = metric.GetCounter().GetValue()
			}
		}
	}
	if got["true"] != 1 || got["false"] != 1 {
		t.Errorf("panicked label counts = %v", got)
	}
}

func TestMetricsLayoutPass(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("ui"), WithSubsystem("test"))

	engine := layout.NewEngine(layout.WithObserver(m))
	root := layout.HStack(
		layout.NewLeaf(10, 10),
		layout.NewRelative(layout.NewLeaf(20, 20), 0.5, 0.5),
	)
	res := engine.Layout(context.Background(), root, layout.UnboundedProposal)

	families := gather(t, reg)
	if got := counterValue(t, families, "ui_test_layout_passes_total"); got != 1 {
		t.Errorf("passes = %g, want 1", got)
	}
	if got := counterValue(t, families, "ui_test_layout_measurements_total"); got != float64(res.Stats.Measures) {
		t.Errorf("measurements = %g, want %d", got, res.Stats.Measures)
	}
	if res.Stats.Fallbacks == 0 {
		t.Fatal("relative under an unbounded proposal should fall back")
	}
	if got := counterValue(t, families, "ui_test_layout_fallbacks_total"); got != float64(res.Stats.Fallbacks) {
		t.Errorf("fallbacks = %g, want %d", got, res.Stats.Fallbacks)
	}
	if got := counterValue(t, families, "ui_test_layout_cache_hits_total"); got != float64(res.Stats.CacheHits) {
		t.Errorf("cache hits = %g, want %d", got, res.Stats.CacheHits)
	}

	nodes := families["ui_test_layout_pass_nodes"].GetMetric()[0].GetHistogram()
	if nodes.GetSampleSum() != 4 {
		t.Errorf("pass nodes sum = %g, want 4", nodes.GetSampleSum())
	}
}

func TestMetricsConstLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithConstLabels(prometheus.Labels{"scene": "card"}),
		WithBuckets([]float64{0.001, 0.01}),
	)
	m.ObservePass(context.Background(), layout.PassStats{Nodes: 2, Duration: 5 * time.Millisecond})

	f := gather(t, reg)["lattice_layout_pass_duration_seconds"]
	metric := f.GetMetric()[0]
	if len(metric.GetLabel()) != 1 || metric.GetLabel()[0].GetValue() != "card" {
		t.Errorf("labels = %v", metric.GetLabel())
	}
	if n := len(metric.GetHistogram().GetBucket()); n != 2 {
		t.Errorf("buckets = %d, want 2", n)
	}
}

func TestMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(WithRegistry(reg))

	defer func() {
		if recover() == nil {
			t.Error("expected panic registering the same collectors twice")
		}
	}()
	NewMetrics(WithRegistry(reg))
}
