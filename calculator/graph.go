package calculator

import (
	"fmt"
)

// Derivation computes one derived field from the fields it declares as inputs.
// Compute reports false when it has nothing to contribute (missing input,
// non-positive divisor); the output is then left as it is.
type Derivation struct {
	Output  Field
	Inputs  []Field
	Compute func(s *Snapshot, rates RateTable) (float64, bool)
}

// Outcome reports whether a triggered derivation produced a value.
type Outcome struct {
	Field    Field
	Computed bool
	Changed  bool
}

// Graph holds derivations in topological order.
type Graph struct {
	order  []Derivation
	inputs map[Field]bool
}

// NewGraph orders the derivations so that every derivation runs after the ones
// producing its inputs. Ties keep declaration order.
func NewGraph(derivations ...Derivation) (*Graph, error) {
	producers := make(map[Field]int, len(derivations))
	for i, d := range derivations {
		if d.Compute == nil {
			return nil, fmt.Errorf("derivation %s has no compute function", d.Output)
		}
		if _, dup := producers[d.Output]; dup {
			return nil, fmt.Errorf("field %s is derived twice", d.Output)
		}
		producers[d.Output] = i
	}

	indegree := make([]int, len(derivations))
	dependents := make([][]int, len(derivations))
	inputs := make(map[Field]bool)
	for i, d := range derivations {
		for _, in := range d.Inputs {
			inputs[in] = true
			if p, ok := producers[in]; ok {
				if p == i {
					return nil, fmt.Errorf("derivation %s depends on itself", d.Output)
				}
				indegree[i]++
				dependents[p] = append(dependents[p], i)
			}
		}
	}

	order := make([]Derivation, 0, len(derivations))
	done := make([]bool, len(derivations))
	for len(order) < len(derivations) {
		next := -1
		for i := range derivations {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("derivations form a cycle")
		}
		done[next] = true
		order = append(order, derivations[next])
		for _, dep := range dependents[next] {
			indegree[dep]--
		}
	}

	return &Graph{order: order, inputs: inputs}, nil
}

// MustGraph is NewGraph for package-level wiring.
func MustGraph(derivations ...Derivation) *Graph {
	g, err := NewGraph(derivations...)
	if err != nil {
		panic(err)
	}
	return g
}

// Order returns the output fields in evaluation order.
func (g *Graph) Order() []Field {
	fields := make([]Field, len(g.order))
	for i, d := range g.order {
		fields[i] = d.Output
	}
	return fields
}

// Propagate re-runs exactly the derivations whose inputs include a changed
// field. A derivation that writes a different value marks its output as
// changed, which in turn triggers the derivations downstream of it.
func (g *Graph) Propagate(s *Snapshot, rates RateTable, changed ...Field) []Outcome {
	dirty := make(map[Field]bool, len(changed))
	for _, f := range changed {
		dirty[f] = true
	}

	var outcomes []Outcome
	for _, d := range g.order {
		if !triggered(d, dirty) {
			continue
		}

		v, ok := d.Compute(s, rates)
		outcome := Outcome{Field: d.Output, Computed: ok}
		if ok {
			current := s.Number(d.Output)
			if current == nil || *current != v {
				s.setNumber(d.Output, Float(v))
				dirty[d.Output] = true
				outcome.Changed = true
			}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// RecomputeAll evaluates the whole chain as if every input had changed.
func (g *Graph) RecomputeAll(s *Snapshot, rates RateTable) []Outcome {
	changed := make([]Field, 0, len(g.inputs))
	for f := range g.inputs {
		changed = append(changed, f)
	}
	return g.Propagate(s, rates, changed...)
}

// FillMissing derives only the outputs that are still unset, so values the
// user supplied are never replaced.
func (g *Graph) FillMissing(s *Snapshot, rates RateTable) []Outcome {
	var outcomes []Outcome
	for _, d := range g.order {
		if s.Number(d.Output) != nil {
			continue
		}
		v, ok := d.Compute(s, rates)
		if ok {
			s.setNumber(d.Output, Float(v))
		}
		outcomes = append(outcomes, Outcome{Field: d.Output, Computed: ok, Changed: ok})
	}
	return outcomes
}

func triggered(d Derivation, dirty map[Field]bool) bool {
	for _, in := range d.Inputs {
		if dirty[in] {
			return true
		}
	}
	return false
}

// UsageGraph is the usage session chain:
// odometers -> km_driven -> estimated_liters -> total_cost.
var UsageGraph = MustGraph(
	Derivation{
		Output: FieldKmDriven,
		Inputs: []Field{FieldInitialOdometer, FieldFinalOdometer},
		Compute: func(s *Snapshot, _ RateTable) (float64, bool) {
			return DeriveDistance(s.InitialOdometer, s.FinalOdometer)
		},
	},
	Derivation{
		Output: FieldEstimatedLiters,
		Inputs: []Field{FieldKmDriven, FieldFuelType, FieldVehicleID},
		Compute: func(s *Snapshot, rates RateTable) (float64, bool) {
			return EstimateLiters(s.KmDriven, s.FuelType, rates)
		},
	},
	Derivation{
		Output: FieldTotalCost,
		Inputs: []Field{FieldEstimatedLiters, FieldPricePerLiter},
		Compute: func(s *Snapshot, _ RateTable) (float64, bool) {
			return DeriveTotalCost(s.EstimatedLiters, s.PricePerLiter)
		},
	},
)
