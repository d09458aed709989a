// Package snapshot stores layout results as golden files and compares new
// passes against them.
//
// A snapshot is the JSON form of a layout.Result together with the proposal
// that produced it. Stores keep snapshots under slash-separated names such as
// "cards/profile"; FileStore writes them below a directory and S3Store writes
// them to a bucket.
//
//	snap := snapshot.New("cards/profile", p, engine.Layout(ctx, root, p))
//	want, err := store.Get(ctx, snap.Name)
//	if err == nil {
//	    err = snapshot.Compare(want, snap)
//	}
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/vango-dev/lattice/internal/errors"
	"github.com/vango-dev/lattice/pkg/layout"
)

// Snapshot is a recorded layout pass.
type Snapshot struct {
	Name       string             `json:"name"`
	Proposal   layout.Proposal    `json:"proposal"`
	Size       layout.Size        `json:"size"`
	Placements []layout.Placement `json:"placements"`
}

// New records res under name.
func New(name string, p layout.Proposal, res layout.Result) *Snapshot {
	placements := make([]layout.Placement, len(res.Placements))
	copy(placements, res.Placements)
	return &Snapshot{
		Name:       name,
		Proposal:   p,
		Size:       res.Size,
		Placements: placements,
	}
}

// Marshal encodes s as indented JSON with a trailing newline, so stored
// files diff cleanly.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes a stored snapshot.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Store persists snapshots by name.
type Store interface {
	// Put writes s under s.Name, replacing any previous snapshot.
	Put(ctx context.Context, s *Snapshot) error

	// Get returns the snapshot stored under name. A missing snapshot is
	// reported as an E301 error.
	Get(ctx context.Context, name string) (*Snapshot, error)
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9._/-]+$`)

// ValidateName checks that name can be used as a file path and object key.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("E304").WithDetail("snapshot name is empty")
	case !namePattern.MatchString(name):
		return errors.New("E304").WithDetailf("snapshot name %q contains unsupported characters", name)
	case strings.HasPrefix(name, "/"), strings.HasSuffix(name, "/"):
		return errors.New("E304").WithDetailf("snapshot name %q must not start or end with '/'", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return errors.New("E304").WithDetailf("snapshot name %q has an empty or relative segment", name)
		}
	}
	return nil
}

// Tolerance is the largest coordinate difference Compare ignores.
const Tolerance = 1e-6

// Compare reports the first difference between a stored snapshot and a new
// one as an E302 error. Proposals are not compared; the caller chooses which
// proposal to replay.
func Compare(want, got *Snapshot) error {
	if !sizeEqual(want.Size, got.Size) {
		return mismatch("root size is %gx%g, snapshot has %gx%g",
			got.Size.Width, got.Size.Height, want.Size.Width, want.Size.Height)
	}
	n := min(len(want.Placements), len(got.Placements))
	for i := 0; i < n; i++ {
		w, g := want.Placements[i], got.Placements[i]
		if w.Kind != g.Kind || w.ID != g.ID || w.Depth != g.Depth {
			return mismatch("placement %d is %s, snapshot has %s", i, describe(g), describe(w))
		}
		if !rectEqual(w.Rect, g.Rect) {
			return mismatch("placement %d (%s) is %v, snapshot has %v", i, describe(g), g.Rect, w.Rect)
		}
	}
	if len(want.Placements) != len(got.Placements) {
		return mismatch("layout has %d placements, snapshot has %d", len(got.Placements), len(want.Placements))
	}
	return nil
}

func mismatch(format string, args ...any) error {
	return errors.New("E302").WithDetailf(format, args...).
		WithSuggestion("Review the change and rerun with --update to accept it")
}

func describe(p layout.Placement) string {
	if p.ID != "" {
		return fmt.Sprintf("%s %q at depth %d", p.Kind, p.ID, p.Depth)
	}
	return fmt.Sprintf("%s at depth %d", p.Kind, p.Depth)
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance
}

func sizeEqual(a, b layout.Size) bool {
	return near(a.Width, b.Width) && near(a.Height, b.Height)
}

func rectEqual(a, b layout.Rect) bool {
	return near(a.Origin.X, b.Origin.X) && near(a.Origin.Y, b.Origin.Y) && sizeEqual(a.Size, b.Size)
}
