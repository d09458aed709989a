package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/vango-dev/lattice/pkg/env"
)

func sampleTree() Node {
	return VStack(
		Identified(NewText("Count: 3", 8, 16), "title"),
		HStack(
			Identified(Weighted(Stretched(NewLeaf(10, 20), StretchMainAxis), 1.5), "primary"),
			Identified(NewSpacer(4), "gap"),
			Identified(Prioritized(NewLeaf(60, 20), 1), "secondary"),
		),
		Identified(NewPadding(NewLeaf(50, 10), UniformInsets(2)), "footer"),
	).WithAlignment(AlignStart)
}

func TestLayoutIsDeterministic(t *testing.T) {
	p := Propose(320, 240)
	tree := sampleTree()

	first := layoutOf(tree, p)
	second := layoutOf(tree, p)
	fresh := layoutOf(sampleTree(), p)

	if !reflect.DeepEqual(first.Placements, second.Placements) {
		t.Error("repeated pass over the same tree produced different placements")
	}
	if !reflect.DeepEqual(first.Placements, fresh.Placements) {
		t.Error("equal trees produced different placements")
	}
	if first.Size != fresh.Size {
		t.Errorf("sizes differ: %+v vs %+v", first.Size, fresh.Size)
	}
}

func TestPlacementsInTreeOrder(t *testing.T) {
	res := layoutOf(sampleTree(), Propose(320, 240))

	var kinds []string
	for _, p := range res.Placements {
		kinds = append(kinds, p.Kind)
	}
	want := []string{"vstack", "text", "hstack", "leaf", "spacer", "leaf", "padding", "leaf"}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("expected %v, got %v", want, kinds)
	}

	depths := map[string]int{"title": 1, "primary": 2, "footer": 1}
	for id, d := range depths {
		p, ok := res.Find(id)
		if !ok {
			t.Fatalf("missing %s", id)
		}
		if p.Depth != d {
			t.Errorf("%s: expected depth %d, got %d", id, d, p.Depth)
		}
	}
	if res.Stats.Nodes != len(want) {
		t.Errorf("expected %d nodes, got %d", len(want), res.Stats.Nodes)
	}
}

func TestChildrenStayInsideParent(t *testing.T) {
	res := layoutOf(sampleTree(), Propose(320, 240))
	root := res.Placements[0].Rect
	for _, p := range res.Placements[1:] {
		if p.Rect.Origin.X < root.Origin.X || p.Rect.Origin.Y < root.Origin.Y ||
			p.Rect.MaxX() > root.MaxX() || p.Rect.MaxY() > root.MaxY() {
			t.Errorf("%s %q escapes root %v: %v", p.Kind, p.ID, root, p.Rect)
		}
	}
}

func TestMeasurementCache(t *testing.T) {
	calls := 0
	counted := NewMeasured(func(p Proposal) Size {
		calls++
		return Size{Width: 10, Height: 10}
	})
	root := HStack(counted, NewLeaf(10, 10)).WithSpacing(0)

	res := layoutOf(root, Propose(100, 100))
	if res.Stats.CacheHits == 0 {
		t.Error("expected cache hits within a pass")
	}
	if calls > res.Stats.Measures {
		t.Errorf("measure function ran %d times for %d cache misses", calls, res.Stats.Measures)
	}
}

func TestObserverReceivesStats(t *testing.T) {
	var got []PassStats
	engine := NewEngine(WithObserver(ObserverFunc(func(_ context.Context, s PassStats) {
		got = append(got, s)
	})))

	engine.Layout(context.Background(), sampleTree(), Propose(100, 100))
	engine.Layout(context.Background(), NewLeaf(1, 1), UnboundedProposal)

	if len(got) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(got))
	}
	if got[0].Nodes != 8 || got[1].Nodes != 1 {
		t.Errorf("unexpected node counts %d, %d", got[0].Nodes, got[1].Nodes)
	}
	if got[0].Start.IsZero() {
		t.Error("expected start time")
	}
}

func TestFallbackIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewEngine(WithLogger(logger)).Layout(context.Background(), NewRelative(NewLeaf(1, 1), 0.5, 0), UnboundedProposal)

	out := buf.String()
	if !strings.Contains(out, "layout fallback") || !strings.Contains(out, "kind=relative") {
		t.Errorf("expected fallback log, got %q", out)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	e := env.With(env.With(env.New(), SpacingKey, 3.0), AlignmentKey, AlignEnd)
	cfg := ConfigFrom(e)
	if cfg.Spacing != 3 || cfg.Alignment != AlignEnd {
		t.Errorf("unexpected config %+v", cfg)
	}

	def := DefaultConfig()
	if def.Spacing != 8 || def.Alignment != AlignCenter {
		t.Errorf("unexpected defaults %+v", def)
	}

	root := HStack(NewLeaf(10, 10), NewLeaf(10, 10))
	res := NewEngine(WithEnvironment(e)).Layout(context.Background(), root, UnboundedProposal)
	if res.Size.Width != 23 {
		t.Errorf("expected spacing from environment, got width %g", res.Size.Width)
	}
}

func TestNilRootPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewEngine().Layout(context.Background(), nil, UnboundedProposal)
}

func TestExtentJSON(t *testing.T) {
	var p Proposal
	if err := json.Unmarshal([]byte(`{"width": 120, "height": null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w, ok := p.Width.Value(); !ok || w != 120 {
		t.Errorf("expected bounded 120, got %v", p.Width)
	}
	if p.Height.Bounded() {
		t.Error("expected unbounded height")
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"width":120,"height":null}` {
		t.Errorf("unexpected encoding %s", data)
	}
}

func TestExtentConstructors(t *testing.T) {
	if Fixed(-3).Or(9) != 0 {
		t.Error("negative lengths should clamp to zero")
	}
	if Fixed(math.Inf(1)).Bounded() {
		t.Error("infinite length should be unbounded")
	}
	if Unbounded.Or(7) != 7 {
		t.Error("Or should return the default when unbounded")
	}
	if got := Propose(1, 2).String(); got != "1x2" {
		t.Errorf("unexpected proposal string %q", got)
	}
	if got := (Proposal{Width: Fixed(5)}).String(); got != "5xunbounded" {
		t.Errorf("unexpected proposal string %q", got)
	}
}

func TestParseNames(t *testing.T) {
	for s, name := range stretchNames {
		got, err := ParseStretch(name)
		if err != nil || got != s {
			t.Errorf("ParseStretch(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseStretch("sideways"); err == nil {
		t.Error("expected error for unknown stretch")
	}
	if a, err := ParseAlignment("trailing"); err != nil || a != AlignEnd {
		t.Errorf("ParseAlignment(trailing) = %v, %v", a, err)
	}
	if d, err := ParseDistribution("space-between"); err != nil || d != DistributeSpaceBetween {
		t.Errorf("ParseDistribution(space-between) = %v, %v", d, err)
	}
}

func TestStretchResolution(t *testing.T) {
	tests := []struct {
		s     Stretch
		stack Axis
		axis  Axis
		want  bool
	}{
		{StretchMainAxis, Horizontal, Horizontal, true},
		{StretchMainAxis, Horizontal, Vertical, false},
		{StretchCrossAxis, Vertical, Horizontal, true},
		{StretchCrossAxis, Vertical, Vertical, false},
		{StretchBoth, Vertical, Horizontal, true},
		{StretchVertical, Horizontal, Horizontal, false},
	}
	for _, tt := range tests {
		if got := tt.s.InStack(tt.stack, tt.axis); got != tt.want {
			t.Errorf("%v.InStack(%v, %v) = %v, want %v", tt.s, tt.stack, tt.axis, got, tt.want)
		}
	}
	if StretchMainAxis.Along(Horizontal) || StretchCrossAxis.Along(Vertical) {
		t.Error("relative stretch should not apply outside a stack")
	}
}
