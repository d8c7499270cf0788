package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/piwi3910/SlabCost/internal/engine"
	"github.com/piwi3910/SlabCost/internal/model"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteProductsCSV writes one row per product with its totals.
func WriteProductsCSV(w io.Writer, products []model.Product) error {
	header := []string{"ID", "Name", "Code", "Status", "Components", "Time (min)",
		"Assembly (min)", "Material cost", "Total cost", "Estimated price", "Progress (%)"}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.ID, p.Name, p.Code, string(p.Status), strconv.Itoa(p.TotalComponents),
			formatFloat(p.TotalTime), formatFloat(p.AssemblyTime), formatFloat(p.MaterialCost),
			formatFloat(p.TotalCost), formatFloat(p.EstimatedCost),
			formatFloat(engine.ProductProgress(p)),
		})
	}
	return writeCSV(w, header, rows)
}

// WriteComponentsCSV writes the components of p. The columns match what
// the importer recognizes, so the file can be imported again.
func WriteComponentsCSV(w io.Writer, p model.Product, templates engine.TemplateLookup) error {
	header := []string{"Name", "Code", "Length", "Width", "Thickness", "Material", "Quantity",
		"Complexity", "Holes", "Grooves", "Chamfers", "Roundings", "Edges", "Processes",
		"Time (min)", "Total cost"}
	rows := make([][]string, 0, len(p.Components))
	for _, pc := range p.Components {
		c := pc.Component
		rows = append(rows, []string{
			c.Name, c.Code,
			formatFloat(c.Size.Length), formatFloat(c.Size.Width), formatFloat(c.Size.Thickness),
			c.Material, strconv.Itoa(c.Quantity), string(c.Complexity),
			strconv.Itoa(c.FeatureCount(model.FeatureHole)),
			strconv.Itoa(c.FeatureCount(model.FeatureGroove)),
			strconv.Itoa(c.FeatureCount(model.FeatureChamfer)),
			strconv.Itoa(c.FeatureCount(model.FeatureRounding)),
			c.EdgeBanding.String(),
			strings.Join(processCodes(c, templates), "+"),
			formatFloat(c.TotalTime), formatFloat(c.TotalCost),
		})
	}
	return writeCSV(w, header, rows)
}

// WriteProcessesCSV writes every component process of p.
func WriteProcessesCSV(w io.Writer, p model.Product, templates engine.TemplateLookup) error {
	header := []string{"Component", "Process ID", "Code", "Process", "Equipment", "Minutes",
		"Actual", "Cost", "Status"}
	lines := ProcessLines(p, templates)
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		actual := ""
		if l.ActualMinutes != nil {
			actual = formatFloat(*l.ActualMinutes)
		}
		rows = append(rows, []string{
			l.ComponentName, l.ProcessID, l.TemplateCode, l.TemplateName, l.Equipment,
			formatFloat(l.Minutes), actual, formatFloat(l.Cost), string(l.Status),
		})
	}
	return writeCSV(w, header, rows)
}
