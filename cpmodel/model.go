// Package cpmodel implements a small integer linear constraint model with a
// branch-and-bound solver. Variables are bounded integers, constraints are
// linear expressions held between two bounds, and the objective is an
// optional linear expression to minimize.
package cpmodel

import "fmt"

// Var identifies a variable inside its model.
type Var int

// Term is one coefficient-variable pair of a linear expression.
type Term struct {
	Var  Var
	Coef int64
}

// noLimit stands in for an unbounded side of a constraint. Kept well below
// the int64 extremes so bound sums cannot overflow.
const noLimit = int64(1) << 40

type linear struct {
	terms []Term
	lo    int64
	hi    int64
}

// Model collects variables, constraints and an optional objective.
// Construction never fails fast; errors accumulate and surface as
// MODEL_INVALID at solve time.
type Model struct {
	names []string
	lo    []int64
	hi    []int64
	cons  []linear
	obj   []Term
	errs  []error
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewBoolVar adds a 0/1 variable.
func (m *Model) NewBoolVar(name string) Var {
	return m.NewIntVar(0, 1, name)
}

// NewIntVar adds an integer variable with inclusive bounds.
func (m *Model) NewIntVar(lo, hi int64, name string) Var {
	if lo > hi {
		m.errs = append(m.errs, fmt.Errorf("variable %s: lower bound %d above upper bound %d", name, lo, hi))
	}
	m.names = append(m.names, name)
	m.lo = append(m.lo, lo)
	m.hi = append(m.hi, hi)
	return Var(len(m.names) - 1)
}

// AddLinear constrains lo <= sum(terms) <= hi.
func (m *Model) AddLinear(terms []Term, lo, hi int64) {
	for _, t := range terms {
		if int(t.Var) < 0 || int(t.Var) >= len(m.names) {
			m.errs = append(m.errs, fmt.Errorf("constraint references unknown variable %d", t.Var))
			return
		}
	}
	if lo > hi {
		m.errs = append(m.errs, fmt.Errorf("constraint bounds inverted: %d > %d", lo, hi))
		return
	}
	cp := make([]Term, len(terms))
	copy(cp, terms)
	m.cons = append(m.cons, linear{terms: cp, lo: lo, hi: hi})
}

// AddLinearAtLeast constrains sum(terms) >= lo.
func (m *Model) AddLinearAtLeast(terms []Term, lo int64) {
	m.AddLinear(terms, lo, noLimit)
}

// AddLinearAtMost constrains sum(terms) <= hi.
func (m *Model) AddLinearAtMost(terms []Term, hi int64) {
	m.AddLinear(terms, -noLimit, hi)
}

func unitTerms(vars []Var) []Term {
	terms := make([]Term, len(vars))
	for i, v := range vars {
		terms[i] = Term{Var: v, Coef: 1}
	}
	return terms
}

// AddSumInRange constrains lo <= sum(vars) <= hi.
func (m *Model) AddSumInRange(vars []Var, lo, hi int64) {
	m.AddLinear(unitTerms(vars), lo, hi)
}

// AddSumEquals constrains sum(vars) == value.
func (m *Model) AddSumEquals(vars []Var, value int64) {
	m.AddLinear(unitTerms(vars), value, value)
}

// AddSumAtMost constrains sum(vars) <= hi.
func (m *Model) AddSumAtMost(vars []Var, hi int64) {
	m.AddLinear(unitTerms(vars), -noLimit, hi)
}

// Fix pins a variable to a single value.
func (m *Model) Fix(v Var, value int64) {
	m.AddLinear([]Term{{Var: v, Coef: 1}}, value, value)
}

// AddEquivalence constrains two boolean variables to take the same value.
func (m *Model) AddEquivalence(a, b Var) {
	m.AddLinear([]Term{{Var: a, Coef: 1}, {Var: b, Coef: -1}}, 0, 0)
}

// AddNotBoth forbids two boolean variables from both being 1.
func (m *Model) AddNotBoth(a, b Var) {
	m.AddSumAtMost([]Var{a, b}, 1)
}

// AddAllZeroIndicator constrains a boolean indicator to be 1 exactly when
// every variable in vars is 0.
func (m *Model) AddAllZeroIndicator(ind Var, vars []Var) {
	for _, v := range vars {
		m.AddSumAtMost([]Var{ind, v}, 1)
	}
	terms := unitTerms(vars)
	terms = append(terms, Term{Var: ind, Coef: 1})
	m.AddLinearAtLeast(terms, 1)
}

// AddConjunctionIndicator constrains a boolean indicator to be 1 exactly
// when every variable in vars is 1.
func (m *Model) AddConjunctionIndicator(ind Var, vars []Var) {
	for _, v := range vars {
		m.AddLinear([]Term{{Var: ind, Coef: 1}, {Var: v, Coef: -1}}, -noLimit, 0)
	}
	terms := make([]Term, 0, len(vars)+1)
	terms = append(terms, Term{Var: ind, Coef: 1})
	for _, v := range vars {
		terms = append(terms, Term{Var: v, Coef: -1})
	}
	m.AddLinearAtLeast(terms, int64(1-len(vars)))
}

// Minimize sets the objective expression.
func (m *Model) Minimize(terms []Term) {
	cp := make([]Term, len(terms))
	copy(cp, terms)
	m.obj = cp
}

// NumVars returns the number of variables in the model.
func (m *Model) NumVars() int { return len(m.names) }

// NumConstraints returns the number of constraints in the model.
func (m *Model) NumConstraints() int { return len(m.cons) }

// Name returns a variable's name.
func (m *Model) Name(v Var) string { return m.names[v] }

func (m *Model) validate() error {
	if len(m.errs) > 0 {
		return m.errs[0]
	}
	for _, t := range m.obj {
		if int(t.Var) < 0 || int(t.Var) >= len(m.names) {
			return fmt.Errorf("objective references unknown variable %d", t.Var)
		}
	}
	return nil
}
