// Package layout arranges a tree of nodes in two phases.
//
// In the measure phase a parent proposes a size to each child and the child
// answers with the size it wants. Either axis of a proposal may be
// unbounded. In the place phase every node receives its final rectangle, top
// down, in tree order.
//
//	root := layout.VStack(
//	    layout.NewText("Count: 0", 8, 16),
//	    layout.HStack(
//	        layout.NewLeaf(24, 24),
//	        layout.NewSpacer(0),
//	        layout.NewLeaf(24, 24),
//	    ),
//	)
//	res := layout.NewEngine().Layout(ctx, root, layout.Propose(200, 100))
//
// Stacks distribute leftover main-axis space to children that stretch along
// it, in proportion to their weight, and take space back from the lowest
// priority children first when their content does not fit. Measurements are
// cached per pass by node and proposal, so a pass is a pure function of the
// tree and the root proposal.
//
// Policies under unbounded proposals: a Relative node falls back to its
// child's ideal size, and stretchers keep their ideal size. Each fallback is
// counted in PassStats and logged at debug level.
package layout
