// Package games holds hand-written rule-sets for the worked examples
// spec.md §8 describes (S1's count-to-2, S2's 2x2 tile puzzle, S3/S5/
// S6's tic-tac-toe), so demos, tests and the cmd binary all draw from
// the same canonical fixtures instead of redefining terms ad hoc.
package games

import (
	"ggpengine/clause"
	"ggpengine/term"
)

// CountToTwo is spec.md §8's S1: one role counts from 1 to 2 and the
// game ends.
func CountToTwo() clause.RuleSet {
	x := term.NewVar("X")
	return clause.RuleSet{
		clause.Fact(term.Comp("role", term.Atom("counter"))),
		clause.Fact(term.Comp("init", term.Comp("count", term.Int(1)))),
		clause.Fact(term.Comp("base", term.Comp("count", term.Int(1)))),
		clause.Fact(term.Comp("base", term.Comp("count", term.Int(2)))),
		clause.Fact(term.Comp("input", term.Atom("counter"), term.Comp("countto", term.Int(2)))),
		clause.Rule(
			term.Comp("legal", term.Atom("counter"), term.Comp("countto", term.Int(2))),
			term.Comp("true", term.Comp("count", term.Int(1))),
		),
		clause.Rule(
			term.Comp("next", term.Comp("count", term.Int(2))),
			clause.And(
				term.Comp("true", term.Comp("count", term.Int(1))),
				term.Comp("does", term.Atom("counter"), term.Comp("countto", term.Int(2))),
			),
		),
		clause.Rule(term.Atom("terminal"), term.Comp("true", term.Comp("count", term.Int(2)))),
		clause.Rule(
			term.Comp("goal", term.Atom("counter"), term.Int(100)),
			term.Comp("true", term.Comp("count", term.Int(2))),
		),
		clause.Rule(
			term.Comp("goal", term.Atom("counter"), term.Int(0)),
			clause.And(
				term.Comp("true", term.Comp("count", x)),
				term.Comp("distinct", x, term.Int(2)),
			),
		),
	}
}

// TilePuzzle is spec.md §8's S2: a single robot slides a blank tile
// around a 2x2 grid; a step counter starts at 1 and advances on every
// move, and the game ends when it reaches 7 (after six moves)
// regardless of what the robot does.
//
// Cells are cell(Row, Col, Value), Value one of 1, 2, 3 or the blank
// atom b. colRight(C1, C2) and rowDown(R1, R2) are the puzzle's static
// adjacency facts, standing in for the bounds-checked arithmetic a
// bigger grid would need.
func TilePuzzle() clause.RuleSet {
	rules := clause.RuleSet{
		clause.Fact(term.Comp("role", term.Atom("robot"))),

		clause.Fact(term.Comp("init", term.Comp("cell", term.Int(1), term.Int(1), term.Atom("b")))),
		clause.Fact(term.Comp("init", term.Comp("cell", term.Int(1), term.Int(2), term.Int(3)))),
		clause.Fact(term.Comp("init", term.Comp("cell", term.Int(2), term.Int(1), term.Int(2)))),
		clause.Fact(term.Comp("init", term.Comp("cell", term.Int(2), term.Int(2), term.Int(1)))),
		clause.Fact(term.Comp("init", term.Comp("step", term.Int(1)))),

		clause.Fact(term.Comp("colRight", term.Int(1), term.Int(2))),
		clause.Fact(term.Comp("rowDown", term.Int(1), term.Int(2))),
	}
	for n := 1; n < 7; n++ {
		rules = append(rules, clause.Fact(term.Comp("succ", term.Int(n), term.Int(n+1))))
	}

	for _, dir := range []string{"right", "left", "down", "up"} {
		rules = append(rules, tilePuzzleDirection(dir)...)
	}

	n, n2 := term.NewVar("N"), term.NewVar("N2")
	rules = append(rules,
		clause.Rule(
			term.Comp("next", term.Comp("step", n2)),
			clause.And(term.Comp("true", term.Comp("step", n)), term.Comp("succ", n, n2)),
		),
		clause.Rule(term.Atom("terminal"), term.Comp("true", term.Comp("step", term.Int(7)))),
	)
	return rules
}

// tilePuzzleDirection builds the legal/next clauses for one of right,
// left, down or up, describing the move as (legal cell, adjacency
// fact, where the blank ends up, where its old cell's new value comes
// from) and handing that off to tilePuzzleClauses.
func tilePuzzleDirection(dir string) clause.RuleSet {
	action := term.Atom(dir)
	v := term.NewVar("V")

	switch dir {
	case "right", "left":
		r, c, c2 := term.NewVar("R"), term.NewVar("C"), term.NewVar("C2")
		adjacent := term.Comp("colRight", c, c2)
		if dir == "left" {
			adjacent = term.Comp("colRight", c2, c)
		}
		return tilePuzzleClauses(
			action,
			term.Comp("cell", r, c, term.Atom("b")),  // legal/blank-here
			adjacent,
			term.Comp("cell", r, c2, term.Atom("b")), // blank moves to
			term.Comp("cell", r, c, v),                 // old blank cell's next value
			term.Comp("cell", r, c2, v),                 // where that value currently is
			true,
		)
	case "down", "up":
		r, r2, c := term.NewVar("R"), term.NewVar("R2"), term.NewVar("C")
		adjacent := term.Comp("rowDown", r, r2)
		if dir == "up" {
			adjacent = term.Comp("rowDown", r2, r)
		}
		return tilePuzzleClauses(
			action,
			term.Comp("cell", r, c, term.Atom("b")),
			adjacent,
			term.Comp("cell", r2, c, term.Atom("b")),
			term.Comp("cell", r, c, v),
			term.Comp("cell", r2, c, v),
			false,
		)
	default:
		panic("games: unknown tile puzzle direction " + dir)
	}
}

// tilePuzzleClauses assembles legal/next for one direction plus the
// frame axiom that leaves every cell outside the moved row (for a
// horizontal move) or column (for a vertical move) unchanged.
func tilePuzzleClauses(action, legalCell, adjacent, blankMovesTo, sourceGetsValue, valueWasAt term.Term, horizontal bool) clause.RuleSet {
	ro, co, rb, cb, v := term.NewVar("Ro"), term.NewVar("Co"), term.NewVar("Rb"), term.NewVar("Cb"), term.NewVar("V")
	frameCell := term.Comp("cell", ro, co, v)
	blankCell := term.Comp("cell", rb, cb, term.Atom("b"))
	guard := term.Comp("distinct", co, cb)
	if horizontal {
		guard = term.Comp("distinct", ro, rb)
	}

	return clause.RuleSet{
		clause.Rule(
			term.Comp("legal", term.Atom("robot"), action),
			clause.And(term.Comp("true", legalCell), adjacent),
		),
		clause.Rule(
			term.Comp("next", blankMovesTo),
			clause.And(term.Comp("does", term.Atom("robot"), action), term.Comp("true", legalCell), adjacent),
		),
		clause.Rule(
			term.Comp("next", sourceGetsValue),
			clause.And(term.Comp("does", term.Atom("robot"), action), term.Comp("true", legalCell), adjacent, term.Comp("true", valueWasAt)),
		),
		clause.Rule(
			term.Comp("next", frameCell),
			clause.And(term.Comp("does", term.Atom("robot"), action), term.Comp("true", frameCell), term.Comp("true", blankCell), guard),
		),
	}
}

// TicTacToe is spec.md §8's S3/S5/S6 fixture: standard 3x3 tic-tac-toe
// with roles white (moves first) and black, marking cells with the
// mover's own role symbol instead of the usual x/o.
func TicTacToe() clause.RuleSet {
	rules := clause.RuleSet{
		clause.Fact(term.Comp("role", term.Atom("white"))),
		clause.Fact(term.Comp("role", term.Atom("black"))),
		clause.Fact(term.Comp("init", term.Comp("control", term.Atom("white")))),
	}
	for row := 1; row <= 3; row++ {
		for col := 1; col <= 3; col++ {
			rules = append(rules, clause.Fact(term.Comp("init", term.Comp("cell", term.Int(row), term.Int(col), term.Atom("b")))))
		}
	}

	w, x, y := term.NewVar("W"), term.NewVar("X"), term.NewVar("Y")
	rules = append(rules, clause.Rule(
		term.Comp("legal", w, term.Comp("mark", x, y)),
		clause.And(
			term.Comp("true", term.Comp("cell", x, y, term.Atom("b"))),
			term.Comp("true", term.Comp("control", w)),
		),
	))

	w2, c := term.NewVar("W2"), term.NewVar("C")
	rules = append(rules, clause.Rule(
		term.Comp("legal", w2, term.Atom("noop")),
		clause.And(
			term.Comp("role", w2),
			term.Comp("true", term.Comp("control", c)),
			term.Comp("distinct", w2, c),
		),
	))

	mw, mx, my := term.NewVar("MW"), term.NewVar("MX"), term.NewVar("MY")
	rules = append(rules, clause.Rule(
		term.Comp("next", term.Comp("cell", mx, my, mw)),
		term.Comp("does", mw, term.Comp("mark", mx, my)),
	))

	fx, fy, fc, fw := term.NewVar("FX"), term.NewVar("FY"), term.NewVar("FC"), term.NewVar("FW")
	rules = append(rules,
		clause.Rule(
			term.Comp("next", term.Comp("cell", fx, fy, fc)),
			clause.And(
				term.Comp("true", term.Comp("cell", fx, fy, fc)),
				term.Comp("true", term.Comp("control", fw)),
				clause.Not(term.Comp("does", fw, term.Comp("mark", fx, fy))),
			),
		),
		clause.Rule(term.Comp("next", term.Comp("control", term.Atom("black"))), term.Comp("true", term.Comp("control", term.Atom("white")))),
		clause.Rule(term.Comp("next", term.Comp("control", term.Atom("white"))), term.Comp("true", term.Comp("control", term.Atom("black")))),
	)

	rules = append(rules, ticTacToeLines()...)

	ox, oy := term.NewVar("OX"), term.NewVar("OY")
	rules = append(rules,
		clause.Rule(term.Atom("open"), term.Comp("true", term.Comp("cell", ox, oy, term.Atom("b")))),
		clause.Rule(term.Atom("terminal"), term.Comp("line", term.Atom("white"))),
		clause.Rule(term.Atom("terminal"), term.Comp("line", term.Atom("black"))),
		clause.Rule(term.Atom("terminal"), clause.Not(term.Atom("open"))),

		clause.Rule(term.Comp("goal", term.Atom("white"), term.Int(100)), term.Comp("line", term.Atom("white"))),
		clause.Rule(term.Comp("goal", term.Atom("white"), term.Int(0)), term.Comp("line", term.Atom("black"))),
		clause.Rule(
			term.Comp("goal", term.Atom("white"), term.Int(50)),
			clause.And(clause.Not(term.Comp("line", term.Atom("white"))), clause.Not(term.Comp("line", term.Atom("black")))),
		),
		clause.Rule(term.Comp("goal", term.Atom("black"), term.Int(100)), term.Comp("line", term.Atom("black"))),
		clause.Rule(term.Comp("goal", term.Atom("black"), term.Int(0)), term.Comp("line", term.Atom("white"))),
		clause.Rule(
			term.Comp("goal", term.Atom("black"), term.Int(50)),
			clause.And(clause.Not(term.Comp("line", term.Atom("white"))), clause.Not(term.Comp("line", term.Atom("black")))),
		),
	)
	return rules
}

// ticTacToeLines builds line(W) for every row, column and diagonal:
// three same-role marks in a row. role(W) is required in every clause
// so a fully-blank row never satisfies line(b).
func ticTacToeLines() clause.RuleSet {
	triples := [][3][2]int{
		{{1, 1}, {1, 2}, {1, 3}},
		{{2, 1}, {2, 2}, {2, 3}},
		{{3, 1}, {3, 2}, {3, 3}},
		{{1, 1}, {2, 1}, {3, 1}},
		{{1, 2}, {2, 2}, {3, 2}},
		{{1, 3}, {2, 3}, {3, 3}},
		{{1, 1}, {2, 2}, {3, 3}},
		{{1, 3}, {2, 2}, {3, 1}},
	}
	var rules clause.RuleSet
	for _, triple := range triples {
		w := term.NewVar("W")
		literals := []term.Term{term.Comp("role", w)}
		for _, cell := range triple {
			literals = append(literals, term.Comp("true", term.Comp("cell", term.Int(cell[0]), term.Int(cell[1]), w)))
		}
		rules = append(rules, clause.Rule(term.Comp("line", w), clause.And(literals...)))
	}
	return rules
}
