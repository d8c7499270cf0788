package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SlabCost/internal/engine"
	"github.com/piwi3910/SlabCost/internal/model"
)

// Sheet names of the estimate workbook.
const (
	SheetSummary    = "Summary"
	SheetComponents = "Components"
	SheetProcesses  = "Processes"
	SheetAssembly   = "Assembly"
)

var (
	componentHeader = []string{"ID", "Name", "Code", "Length", "Width", "Thickness", "Material",
		"Quantity", "Complexity", "Edges", "Time (min)", "Material cost", "Process cost", "Total cost"}
	processHeader = []string{"Component", "Code", "Process", "Equipment", "Minutes", "Actual",
		"Cost", "Status"}
	assemblyHeader = []string{"Name", "Components", "Minutes", "Status"}
)

// ExportXLSX writes p to an Excel workbook with a summary sheet and one
// sheet each for components, processes and assembly steps.
func ExportXLSX(path string, p model.Product, templates engine.TemplateLookup) error {
	if len(p.Components) == 0 {
		return fmt.Errorf("export xlsx %q: %w", p.Name, ErrNoComponents)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	for _, name := range []string{SheetComponents, SheetProcesses, SheetAssembly} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}

	q := p.Quote
	summary := [][]interface{}{
		{"Product", p.Name},
		{"Code", p.Code},
		{"Status", string(p.Status)},
		{"Components", p.TotalComponents},
		{"Process time (min)", p.TotalTime},
		{"Assembly time (min)", p.AssemblyTime},
		{"Material cost", q.MaterialCost},
		{"Labor minutes", q.LaborMinutes},
		{"Hourly rate", q.HourlyRate},
		{"Labor cost", q.LaborCost},
		{"Overhead rate", q.OverheadRate},
		{"Overhead", q.Overhead},
		{"Estimated price", p.EstimatedCost},
		{"Progress (%)", model.Round2(engine.ProductProgress(p))},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}

	rows := [][]interface{}{toRow(componentHeader)}
	for _, pc := range p.Components {
		c := pc.Component
		rows = append(rows, []interface{}{
			c.ID, c.Name, c.Code, c.Size.Length, c.Size.Width, c.Size.Thickness, c.Material,
			pc.Quantity, string(c.Complexity), c.EdgeBanding.String(),
			c.TotalTime, c.MaterialCost, c.ProcessCost, c.TotalCost,
		})
	}
	if err := writeTable(f, SheetComponents, rows, bold); err != nil {
		return err
	}

	rows = [][]interface{}{toRow(processHeader)}
	for _, l := range ProcessLines(p, templates) {
		var actual interface{}
		if l.ActualMinutes != nil {
			actual = *l.ActualMinutes
		}
		rows = append(rows, []interface{}{
			l.ComponentName, l.TemplateCode, l.TemplateName, l.Equipment,
			l.Minutes, actual, l.Cost, string(l.Status),
		})
	}
	if err := writeTable(f, SheetProcesses, rows, bold); err != nil {
		return err
	}

	rows = [][]interface{}{toRow(assemblyHeader)}
	for _, a := range p.AssemblyProcesses {
		rows = append(rows, []interface{}{a.Name, len(a.ComponentIDs), a.EstimatedTime, string(a.Status)})
	}
	if err := writeTable(f, SheetAssembly, rows, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	return nil
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("export xlsx %s: %w", sheet, err)
		}
	}
	return nil
}

// writeTable writes rows with the first one styled as a header and widens
// the columns.
func writeTable(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	return nil
}
