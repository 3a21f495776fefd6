// Package term implements the logic-term model shared by every other
// package in this module: variables, atoms, integers and compounds,
// with lists modeled as compounds in the classic Prolog style.
package term

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Term is any logic term: a Var, an Atom, an Int, or a *Compound.
type Term interface {
	fmt.Stringer
	isTerm()
}

// Atom is an interned symbol. Two Atoms with the same name compare
// equal with ==, since Atom is a plain string underneath.
type Atom string

func (Atom) isTerm()          {}
func (a Atom) String() string { return string(a) }

var internPool sync.Map // string -> Atom

// Intern returns the canonical Atom for name. Equality of Atom values
// never depends on interning (Go string comparison already gives
// that); Intern exists so long-lived functor names constructed from
// dynamic strings share one backing string, matching the "interned
// symbol" contract in the term model.
func Intern(name string) Atom {
	if v, ok := internPool.Load(name); ok {
		return v.(Atom)
	}
	a := Atom(name)
	actual, _ := internPool.LoadOrStore(name, a)
	return actual.(Atom)
}

// Int is a bounded integer term.
type Int int64

func (Int) isTerm()          {}
func (i Int) String() string { return fmt.Sprintf("%d", int64(i)) }

// Compound is a functor applied to an ordered argument list.
// A Compound with zero arguments is never constructed; use Atom
// instead — this matches the GDL convention that arity-0 predicates
// are atoms.
type Compound struct {
	Functor Atom
	Args    []Term
}

func (*Compound) isTerm() {}

func (c *Compound) String() string {
	if len(c.Args) == 0 {
		return string(c.Functor)
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Functor, strings.Join(parts, ", "))
}

// Arity returns the number of arguments c takes.
func (c *Compound) Arity() int { return len(c.Args) }

// Comp builds a compound term. Comp(f) with no args returns an Atom,
// so callers never need to special-case arity zero.
func Comp(functor string, args ...Term) Term {
	if len(args) == 0 {
		return Intern(functor)
	}
	return &Compound{Functor: Intern(functor), Args: args}
}

var varCounter uint64

// Var is an unbound-variable placeholder, identified by a process-wide
// unique id. Name is carried only for readable output; two distinct
// Vars are never equal even if given the same Name.
type Var struct {
	id   uint64
	Name string
}

func (*Var) isTerm() {}

// NewVar allocates a fresh variable. name is for display only.
func NewVar(name string) *Var {
	return &Var{id: atomic.AddUint64(&varCounter, 1), Name: name}
}

func (v *Var) String() string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("_G%d", v.id)
}

// Functor returns the (name, arity) of t if t is an Atom or Compound.
// Vars and Ints have no functor and ok is false.
func Functor(t Term) (name Atom, arity int, ok bool) {
	switch x := t.(type) {
	case Atom:
		return x, 0, true
	case *Compound:
		return x.Functor, len(x.Args), true
	default:
		return "", 0, false
	}
}
