package resolve

import (
	"ggpengine/term"
	"ggpengine/utils"
)

// solveAggregate implements findall/3, bagof/3 and setof/3: collect
// Template under every solution of Goal into Bag. findall always
// succeeds, producing [] on no solutions; bagof and setof fail on no
// solutions; setof additionally deduplicates and sorts by canonical
// string order (spec.md §4.2: an implementation-defined but stable
// order is sufficient, GDL rule-sets never depend on aggregate order).
func solveAggregate(rs *resolveState, g *term.Compound, frame *term.Frame, k Continuation) bool {
	template, goal, bagVar := g.Args[0], g.Args[1], g.Args[2]

	var collected []term.Term
	solve(rs, goal, frame, func(f *term.Frame) bool {
		collected = append(collected, f.Resolve(template))
		return false
	})
	if rs.stopped() {
		return true
	}

	switch g.Functor {
	case "bagof":
		if len(collected) == 0 {
			return false
		}
	case "setof":
		if len(collected) == 0 {
			return false
		}
		collected = utils.DedupSorted(collected, func(t term.Term) string { return t.String() })
	}

	bag := term.FromSlice(collected)
	f, ok := term.Unify(bagVar, bag, frame)
	if !ok {
		return false
	}
	return k(f)
}
