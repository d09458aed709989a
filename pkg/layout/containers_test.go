package layout

import (
	"math"
	"testing"
)

func TestPaddingInsetsChild(t *testing.T) {
	leaf := NewLeaf(20, 10)
	root := NewPadding(Identified(leaf, "content"), UniformInsets(5))

	res := layoutOf(root, UnboundedProposal)
	if res.Size != (Size{Width: 30, Height: 20}) {
		t.Errorf("expected 30x20, got %+v", res.Size)
	}
	if got := rectOf(t, res, "content"); got != RectOf(5, 5, 20, 10) {
		t.Errorf("unexpected child rect %v", got)
	}
	if !leaf.Placed() || leaf.Rect() != RectOf(5, 5, 20, 10) {
		t.Errorf("leaf should record its rect, got %v", leaf.Rect())
	}
}

func TestPaddingShrinksProposal(t *testing.T) {
	root := NewPadding(Identified(NewLeaf(100, 10), "content"), Insets{Left: 10, Right: 10})

	res := layoutOf(root, Propose(50, 10))
	if got := rectOf(t, res, "content").Size.Width; got != 30 {
		t.Errorf("expected padded child width 30, got %g", got)
	}
}

func TestPaddingPassesTraitsThrough(t *testing.T) {
	p := NewPadding(Stretched(NewLeaf(0, 0), StretchHorizontal), UniformInsets(1))
	if p.Traits().Stretch != StretchHorizontal {
		t.Errorf("expected horizontal stretch, got %v", p.Traits().Stretch)
	}
}

func TestFixedFrame(t *testing.T) {
	tests := []struct {
		name  string
		frame func(Node) *Frame
		want  Rect
	}{
		{"centered", func(n Node) *Frame { return FixedFrame(n, 100, 50) }, RectOf(40, 20, 20, 10)},
		{"start", func(n Node) *Frame { return FixedFrame(n, 100, 50).WithAlignment(AlignStart) }, RectOf(0, 0, 20, 10)},
		{"end", func(n Node) *Frame { return FixedFrame(n, 100, 50).WithAlignment(AlignEnd) }, RectOf(80, 40, 20, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := layoutOf(tt.frame(Identified(NewLeaf(20, 10), "child")), UnboundedProposal)
			if res.Size != (Size{Width: 100, Height: 50}) {
				t.Errorf("expected 100x50, got %+v", res.Size)
			}
			if got := rectOf(t, res, "child"); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFrameStretchingChildFills(t *testing.T) {
	root := FixedFrame(Identified(Stretched(NewLeaf(5, 5), StretchBoth), "child"), 60, 40)
	res := layoutOf(root, UnboundedProposal)
	if got := rectOf(t, res, "child"); got != RectOf(0, 0, 60, 40) {
		t.Errorf("expected child to fill frame, got %v", got)
	}
}

func TestFrameFixedAxesStopStretch(t *testing.T) {
	f := &Frame{Child: Stretched(NewLeaf(0, 0), StretchBoth), Width: Fixed(10)}
	if got := f.Traits().Stretch; got != StretchVertical {
		t.Errorf("expected vertical stretch, got %v", got)
	}
	if got := FixedFrame(Stretched(NewLeaf(0, 0), StretchBoth), 1, 1).Traits().Stretch; got != StretchNone {
		t.Errorf("expected no stretch, got %v", got)
	}
}

func TestFrameMinMax(t *testing.T) {
	t.Run("max clamps", func(t *testing.T) {
		f := NewFrame(Identified(NewLeaf(200, 10), "child"))
		f.MaxWidth = Fixed(50)
		res := layoutOf(f, UnboundedProposal)
		if res.Size.Width != 50 {
			t.Errorf("expected 50, got %g", res.Size.Width)
		}
		if got := rectOf(t, res, "child").Size.Width; got != 50 {
			t.Errorf("expected child width 50, got %g", got)
		}
	})

	t.Run("min grows", func(t *testing.T) {
		f := NewFrame(Identified(NewLeaf(20, 10), "child"))
		f.MinWidth = Fixed(80)
		res := layoutOf(f, UnboundedProposal)
		if res.Size.Width != 80 {
			t.Errorf("expected 80, got %g", res.Size.Width)
		}
		if got := rectOf(t, res, "child").Origin.X; got != 30 {
			t.Errorf("expected child centered at 30, got %g", got)
		}
	})
}

func TestOverlay(t *testing.T) {
	root := NewOverlay(
		Identified(NewLeaf(30, 10), "wide"),
		Identified(NewLeaf(10, 40), "tall"),
	)

	res := layoutOf(root, UnboundedProposal)
	if res.Size != (Size{Width: 30, Height: 40}) {
		t.Errorf("expected 30x40, got %+v", res.Size)
	}
	if got := rectOf(t, res, "tall"); got != RectOf(10, 0, 10, 40) {
		t.Errorf("unexpected tall rect %v", got)
	}
	if got := rectOf(t, res, "wide"); got != RectOf(0, 15, 30, 10) {
		t.Errorf("unexpected wide rect %v", got)
	}
}

func TestOverlayStretchingChildTakesProposal(t *testing.T) {
	root := NewOverlay(
		Identified(Stretched(NewLeaf(0, 0), StretchBoth), "background"),
		Identified(NewLeaf(10, 10), "badge"),
	).WithAlignment(AlignEnd)

	res := layoutOf(root, Propose(100, 60))
	if res.Size != (Size{Width: 100, Height: 60}) {
		t.Errorf("expected 100x60, got %+v", res.Size)
	}
	if got := rectOf(t, res, "background"); got != RectOf(0, 0, 100, 60) {
		t.Errorf("unexpected background rect %v", got)
	}
	if got := rectOf(t, res, "badge"); got != RectOf(90, 50, 10, 10) {
		t.Errorf("unexpected badge rect %v", got)
	}
}

func TestRelativeBounded(t *testing.T) {
	root := NewRelative(Identified(NewLeaf(40, 20), "child"), 0.5, 0)
	res := layoutOf(root, Propose(200, 100))

	if res.Size != (Size{Width: 100, Height: 20}) {
		t.Errorf("expected 100x20, got %+v", res.Size)
	}
	if res.Stats.Fallbacks != 0 {
		t.Errorf("expected no fallbacks, got %d", res.Stats.Fallbacks)
	}
}

func TestRelativeUnboundedFallsBack(t *testing.T) {
	root := NewRelative(NewLeaf(40, 20), 0.5, 0.25)
	res := layoutOf(root, UnboundedProposal)

	if res.Size != (Size{Width: 40, Height: 20}) {
		t.Errorf("expected the child's ideal size, got %+v", res.Size)
	}
	if res.Stats.Fallbacks != 2 {
		t.Errorf("expected 2 fallbacks, got %d", res.Stats.Fallbacks)
	}
}

func TestLeafPolicies(t *testing.T) {
	clamp := NewLeaf(100, 10)
	overflow := &Leaf{Intrinsic: Size{Width: 100, Height: 10}, Policy: Overflow}
	ctx := NewContext(DefaultConfig(), nil)

	if got := ctx.Measure(clamp, Propose(50, 50)); got.Width != 50 {
		t.Errorf("clamp: expected 50, got %g", got.Width)
	}
	if got := ctx.Measure(overflow, Propose(50, 50)); got.Width != 100 {
		t.Errorf("overflow: expected 100, got %g", got.Width)
	}
	if got := ctx.Measure(clamp, UnboundedProposal); got.Width != 100 {
		t.Errorf("unbounded: expected 100, got %g", got.Width)
	}
}

func TestTextWraps(t *testing.T) {
	text := NewText("hello world", 10, 20)
	ctx := NewContext(DefaultConfig(), nil)

	if got := ctx.Measure(text, UnboundedProposal); got != (Size{Width: 110, Height: 20}) {
		t.Errorf("single line: got %+v", got)
	}
	if got := ctx.Measure(text, Propose(50, 100)); got != (Size{Width: 50, Height: 60}) {
		t.Errorf("wrapped: got %+v", got)
	}
	if got := ctx.Measure(text, Propose(3, 100)); got != (Size{Width: 10, Height: 220}) {
		t.Errorf("narrow: got %+v", got)
	}
	if kindOf(text) != "text" {
		t.Errorf("expected kind text, got %q", kindOf(text))
	}
}

func TestMeasurementsAreSanitized(t *testing.T) {
	bad := NewMeasured(func(Proposal) Size {
		return Size{Width: math.NaN(), Height: -5}
	})
	ctx := NewContext(DefaultConfig(), nil)
	if got := ctx.Measure(bad, UnboundedProposal); got != (Size{}) {
		t.Errorf("expected zero size, got %+v", got)
	}
	if got := ctx.Measure(NewMeasured(nil), UnboundedProposal); got != (Size{}) {
		t.Errorf("expected zero size for nil fn, got %+v", got)
	}
}

func TestSpacerOutsideStack(t *testing.T) {
	ctx := NewContext(DefaultConfig(), nil)
	if got := ctx.Measure(NewSpacer(10), Propose(4, 100)); got != (Size{Width: 4, Height: 10}) {
		t.Errorf("got %+v", got)
	}
}
