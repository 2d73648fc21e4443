package cpmodel

import (
	"math/rand"
	"time"
)

// Status is the terminal state of a solve.
type Status string

const (
	StatusUnknown      Status = "UNKNOWN"
	StatusOptimal      Status = "OPTIMAL"
	StatusFeasible     Status = "FEASIBLE"
	StatusInfeasible   Status = "INFEASIBLE"
	StatusModelInvalid Status = "MODEL_INVALID"
)

func (s Status) String() string { return string(s) }

// Option tunes a solve.
type Option func(*solverConfig)

type solverConfig struct {
	timeout time.Duration
	seed    int64
}

// WithTimeout caps the solve wall time. Zero means no cap.
func WithTimeout(d time.Duration) Option {
	return func(c *solverConfig) { c.timeout = d }
}

// WithSeed fixes the branching-order seed, making results reproducible.
func WithSeed(seed int64) Option {
	return func(c *solverConfig) { c.seed = seed }
}

// Result carries the outcome of a solve. Variable values are meaningful
// only when Status is OPTIMAL or FEASIBLE.
type Result struct {
	Status    Status
	Objective int64
	WallTime  time.Duration
	Branches  int64
	Conflicts int64
	values    []int64
}

// Value returns the solved value of a variable.
func (r Result) Value(v Var) int64 {
	if r.values == nil {
		return 0
	}
	return r.values[v]
}

// BoolValue returns the solved value of a boolean variable.
func (r Result) BoolValue(v Var) bool { return r.Value(v) == 1 }

type solver struct {
	model    *Model
	order    []Var
	deadline time.Time
	hasDL    bool

	lo       []int64
	hi       []int64
	involved []bool

	best      []int64
	bestObj   int64
	hasBest   bool
	branches  int64
	conflicts int64
	timedOut  bool
	done      bool
}

// Solve searches for an assignment satisfying every constraint, minimizing
// the objective when one is set. The search is a depth-first branch and
// bound with bounds-consistency propagation at every node.
func Solve(m *Model, opts ...Option) Result {
	start := time.Now()
	cfg := solverConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := m.validate(); err != nil {
		return Result{Status: StatusModelInvalid, WallTime: time.Since(start)}
	}

	s := &solver{model: m}
	if cfg.timeout > 0 {
		s.deadline = start.Add(cfg.timeout)
		s.hasDL = true
	}
	s.lo = make([]int64, len(m.lo))
	s.hi = make([]int64, len(m.hi))
	copy(s.lo, m.lo)
	copy(s.hi, m.hi)

	// Variables outside every constraint and the objective can sit at
	// their lower bound; branching on them only bloats the search.
	s.involved = make([]bool, len(m.names))
	for _, c := range m.cons {
		for _, t := range c.terms {
			s.involved[t.Var] = true
		}
	}
	for _, t := range m.obj {
		s.involved[t.Var] = true
	}

	s.order = make([]Var, len(m.names))
	for i := range s.order {
		s.order[i] = Var(i)
	}
	rng := rand.New(rand.NewSource(cfg.seed))
	rng.Shuffle(len(s.order), func(i, j int) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	})

	exhausted := true
	if s.propagate() {
		exhausted = s.search(0)
	} else {
		s.conflicts++
	}

	res := Result{
		WallTime:  time.Since(start),
		Branches:  s.branches,
		Conflicts: s.conflicts,
	}
	switch {
	case s.hasBest && (exhausted || len(m.obj) == 0):
		res.Status = StatusOptimal
		res.Objective = s.bestObj
		res.values = s.best
	case s.hasBest:
		res.Status = StatusFeasible
		res.Objective = s.bestObj
		res.values = s.best
	case exhausted:
		res.Status = StatusInfeasible
	default:
		res.Status = StatusUnknown
	}
	return res
}

// search assigns variables in shuffled creation order. It returns true when
// the subtree was fully explored and false when the search stopped early,
// either on the deadline or because the first solution of an
// objective-free model suffices.
func (s *solver) search(depth int) bool {
	if s.hasDL && s.branches&127 == 0 && time.Now().After(s.deadline) {
		s.timedOut = true
		return false
	}
	v := s.nextUnbound(depth)
	if v < 0 {
		s.record()
		if len(s.model.obj) == 0 {
			s.done = true
		}
		return !s.done
	}

	savedLo := make([]int64, len(s.lo))
	savedHi := make([]int64, len(s.hi))
	for val := s.lo[v]; val <= s.hi[v]; val++ {
		s.branches++
		copy(savedLo, s.lo)
		copy(savedHi, s.hi)
		s.lo[v] = val
		s.hi[v] = val
		ok := s.propagate() && s.admissible()
		if ok && !s.search(depth+1) {
			copy(s.lo, savedLo)
			copy(s.hi, savedHi)
			return false
		}
		if !ok {
			s.conflicts++
		}
		copy(s.lo, savedLo)
		copy(s.hi, savedHi)
	}
	return true
}

func (s *solver) nextUnbound(from int) Var {
	for _, v := range s.order[min(from, len(s.order)):] {
		if s.involved[v] && s.lo[v] < s.hi[v] {
			return v
		}
	}
	// The shuffled prefix heuristic can leave unbound variables behind the
	// cursor after propagation; sweep everything before declaring a leaf.
	for _, v := range s.order {
		if s.involved[v] && s.lo[v] < s.hi[v] {
			return v
		}
	}
	return -1
}

// record stores the current full assignment when it improves on the best.
func (s *solver) record() {
	obj := int64(0)
	for _, t := range s.model.obj {
		obj += t.Coef * s.lo[t.Var]
	}
	if s.hasBest && obj >= s.bestObj {
		return
	}
	s.hasBest = true
	s.bestObj = obj
	s.best = make([]int64, len(s.lo))
	copy(s.best, s.lo)
}

// admissible prunes branches whose objective lower bound cannot beat the
// incumbent.
func (s *solver) admissible() bool {
	if !s.hasBest || len(s.model.obj) == 0 {
		return true
	}
	return s.objectiveLower() < s.bestObj
}

func (s *solver) objectiveLower() int64 {
	lower := int64(0)
	for _, t := range s.model.obj {
		if t.Coef >= 0 {
			lower += t.Coef * s.lo[t.Var]
		} else {
			lower += t.Coef * s.hi[t.Var]
		}
	}
	return lower
}

// propagate tightens variable bounds against every constraint until a
// fixpoint. It returns false on a proven conflict.
func (s *solver) propagate() bool {
	for {
		changed := false
		for _, c := range s.model.cons {
			minSum, maxSum := int64(0), int64(0)
			for _, t := range c.terms {
				if t.Coef >= 0 {
					minSum += t.Coef * s.lo[t.Var]
					maxSum += t.Coef * s.hi[t.Var]
				} else {
					minSum += t.Coef * s.hi[t.Var]
					maxSum += t.Coef * s.lo[t.Var]
				}
			}
			if minSum > c.hi || maxSum < c.lo {
				return false
			}
			for _, t := range c.terms {
				if t.Coef == 0 {
					continue
				}
				var restMin, restMax int64
				if t.Coef >= 0 {
					restMin = minSum - t.Coef*s.lo[t.Var]
					restMax = maxSum - t.Coef*s.hi[t.Var]
				} else {
					restMin = minSum - t.Coef*s.hi[t.Var]
					restMax = maxSum - t.Coef*s.lo[t.Var]
				}
				// t.Coef*x must lie in [c.lo-restMax, c.hi-restMin].
				termLo := c.lo - restMax
				termHi := c.hi - restMin
				var newLo, newHi int64
				if t.Coef > 0 {
					newLo = ceilDiv(termLo, t.Coef)
					newHi = floorDiv(termHi, t.Coef)
				} else {
					newLo = ceilDiv(termHi, t.Coef)
					newHi = floorDiv(termLo, t.Coef)
				}
				if newLo > s.lo[t.Var] {
					s.lo[t.Var] = newLo
					changed = true
				}
				if newHi < s.hi[t.Var] {
					s.hi[t.Var] = newHi
					changed = true
				}
				if s.lo[t.Var] > s.hi[t.Var] {
					return false
				}
			}
		}
		if !changed {
			return true
		}
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
