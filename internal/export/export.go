// Package export writes product estimates to PDF, XLSX and CSV files and
// prints QR-coded traveler labels for components.
package export

import (
	"errors"

	"github.com/piwi3910/SlabCost/internal/engine"
	"github.com/piwi3910/SlabCost/internal/model"
)

// ErrNoComponents is returned when a product has nothing to export.
var ErrNoComponents = errors.New("product has no components")

// ProcessLine is one component process with its template resolved.
type ProcessLine struct {
	ComponentID   string
	ComponentName string
	ProcessID     string
	TemplateID    string
	TemplateCode  string
	TemplateName  string
	Equipment     string
	Minutes       float64
	Cost          float64
	ActualMinutes *float64
	Status        model.Status
}

// ProcessLines flattens the processes of every component of p in order.
// templates may be nil, in which case template IDs stand in for names.
func ProcessLines(p model.Product, templates engine.TemplateLookup) []ProcessLine {
	var lines []ProcessLine
	for _, pc := range p.Components {
		c := pc.Component
		for _, proc := range c.Processes {
			line := ProcessLine{
				ComponentID:   c.ID,
				ComponentName: c.Name,
				ProcessID:     proc.ID,
				TemplateID:    proc.TemplateID,
				TemplateName:  proc.TemplateID,
				Equipment:     proc.Equipment,
				Minutes:       proc.CalculatedTime,
				Cost:          proc.Cost,
				ActualMinutes: proc.ActualTime,
				Status:        proc.Status,
			}
			if templates != nil {
				if t := templates.FindByID(proc.TemplateID); t != nil {
					line.TemplateCode = t.Code
					line.TemplateName = t.Name
					if line.Equipment == "" {
						line.Equipment = t.PrimaryEquipment()
					}
				}
			}
			lines = append(lines, line)
		}
	}
	return lines
}

// processCodes returns the template codes of c's processes, falling back to
// template IDs when a template cannot be resolved.
func processCodes(c model.Component, templates engine.TemplateLookup) []string {
	codes := make([]string, 0, len(c.Processes))
	for _, proc := range c.Processes {
		code := proc.TemplateID
		if templates != nil {
			if t := templates.FindByID(proc.TemplateID); t != nil {
				code = t.Code
			}
		}
		codes = append(codes, code)
	}
	return codes
}
