package term

// RenameApart returns a copy of t with every distinct *Var replaced by
// a fresh one, consistently within a single call. mapping is both
// input and output: pass the same map across a Head and Body copied
// together so shared variables stay shared, and reuse it across
// multiple terms that must rename apart in lock-step.
//
// This is how the resolver "instantiates" a stored clause on each
// trial: clauses are rewritten once at install time and share their
// *Var pointers across every future use, so a fresh copy is required
// per attempt or two concurrent proofs would alias each other's
// bindings.
func RenameApart(t Term, mapping map[*Var]*Var) Term {
	switch x := t.(type) {
	case *Var:
		if nv, ok := mapping[x]; ok {
			return nv
		}
		nv := NewVar(x.Name)
		mapping[x] = nv
		return nv
	case *Compound:
		args := make([]Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = RenameApart(a, mapping)
		}
		return &Compound{Functor: x.Functor, Args: args}
	default:
		return t
	}
}
