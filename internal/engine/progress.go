package engine

import (
	"github.com/samber/lo"

	"github.com/piwi3910/SlabCost/internal/model"
)

// ComponentProgress is the completed share of c's processes, in percent.
func ComponentProgress(c model.Component) float64 {
	return model.Progress(lo.Map(c.Processes, func(p model.ComponentProcess, _ int) model.Status {
		return p.Status
	}))
}

// ProductProgress counts every component process and every assembly step.
func ProductProgress(p model.Product) float64 {
	var statuses []model.Status
	for _, pc := range p.Components {
		for _, proc := range pc.Component.Processes {
			statuses = append(statuses, proc.Status)
		}
	}
	for _, a := range p.AssemblyProcesses {
		statuses = append(statuses, a.Status)
	}
	return model.Progress(statuses)
}
