package views

import (
	"evault/core"
)

// Simulation simulated batch outcome
type Simulation struct {
	Items  []*SimulationItem  `json:"items"`
	Checks []*SimulationCheck `json:"checks"`
	Events []*core.Event      `json:"events"`
}

// SimulationItem outcome of one call
type SimulationItem struct {
	Name   string `json:"name"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

// SimulationCheck outcome of one deferred status check
type SimulationCheck struct {
	Target string `json:"target"`
	Vault  bool   `json:"vault"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

// NewSimulation render r
func NewSimulation(r *core.SimulationResult) *Simulation {
	s := &Simulation{
		Items:  make([]*SimulationItem, 0, len(r.Items)),
		Checks: make([]*SimulationCheck, 0, len(r.Checks)),
		Events: r.Events,
	}

	for _, item := range r.Items {
		view := &SimulationItem{Name: item.Name, Result: item.Result}
		if item.Err != nil {
			view.Error = item.Err.Error()
			view.Code = core.CodeOf(item.Err).Name()
		}
		s.Items = append(s.Items, view)
	}

	for _, check := range r.Checks {
		view := &SimulationCheck{Target: check.Target.Hex(), Vault: check.Vault}
		if check.Err != nil {
			view.Error = check.Err.Error()
			view.Code = core.CodeOf(check.Err).Name()
		}
		s.Checks = append(s.Checks, view)
	}

	return s
}
