package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SlabCost/internal/engine"
	"github.com/piwi3910/SlabCost/internal/model"
)

// partColor represents an RGB color for a component.
type partColor struct {
	R, G, B int
}

var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	drawAreaW    = 120.0
	rowHeight    = 6.0
)

// ExportPDF writes an estimate report for p: a summary page with the quote
// and the component table, then one page per component with a scaled panel
// drawing and its process breakdown. p should be recomputed beforehand.
func ExportPDF(path string, p model.Product, templates engine.TemplateLookup) error {
	if len(p.Components) == 0 {
		return fmt.Errorf("export pdf %q: %w", p.Name, ErrNoComponents)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderSummaryPage(pdf, p)

	lines := ProcessLines(p, templates)
	for i, pc := range p.Components {
		pdf.AddPage()
		renderComponentPage(pdf, pc, i, lines)
	}

	return pdf.OutputFileAndClose(path)
}

// renderSummaryPage draws the quote and the component table.
func renderSummaryPage(pdf *fpdf.Fpdf, p model.Product) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	title := "Estimate: " + p.Name
	if p.Code != "" {
		title += " (" + p.Code + ")"
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, title, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Quote", "", 0, "L", false, 0, "")
	y += 9

	q := p.Quote
	summaryItems := []struct {
		label string
		value string
	}{
		{"Components", fmt.Sprintf("%d", p.TotalComponents)},
		{"Process time", fmt.Sprintf("%.2f min", p.TotalTime)},
		{"Assembly time", fmt.Sprintf("%.2f min", p.AssemblyTime)},
		{"Material cost", fmt.Sprintf("%.2f", q.MaterialCost)},
		{"Labor", fmt.Sprintf("%.2f min x %.2f/h = %.2f", q.LaborMinutes, q.HourlyRate, q.LaborCost)},
		{"Overhead", fmt.Sprintf("%.0f%% = %.2f", q.OverheadRate*100, q.Overhead)},
		{"Estimated price", fmt.Sprintf("%.2f", p.EstimatedCost)},
		{"Progress", fmt.Sprintf("%.1f%%", engine.ProductProgress(p))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(100, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Components", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{10, 55, 40, 35, 12, 22, 25, 25, 25, 18}
	headers := []string{"#", "Component", "Size (mm)", "Material", "Qty", "Complexity", "Time (min)", "Material", "Process", "Total"}
	y = drawTableHeader(pdf, marginLeft, y, colWidths, headers)

	pdf.SetFont("Helvetica", "", 9)
	for i, pc := range p.Components {
		if y > pageHeight-marginBottom-rowHeight {
			pdf.AddPage()
			y = drawTableHeader(pdf, marginLeft, marginTop, colWidths, headers)
			pdf.SetFont("Helvetica", "", 9)
		}
		c := pc.Component
		drawTableRow(pdf, marginLeft, y, colWidths, i, []string{
			fmt.Sprintf("%d", i+1),
			c.Name,
			fmt.Sprintf("%.0f x %.0f x %.0f", c.Size.Length, c.Size.Width, c.Size.Thickness),
			c.Material,
			fmt.Sprintf("%d", pc.Quantity),
			string(c.Complexity),
			fmt.Sprintf("%.2f", c.TotalTime),
			fmt.Sprintf("%.2f", c.MaterialCost),
			fmt.Sprintf("%.2f", c.ProcessCost),
			fmt.Sprintf("%.2f", c.TotalCost),
		})
		y += rowHeight
	}

	if len(p.AssemblyProcesses) > 0 {
		y += 8
		if y > pageHeight-marginBottom-20 {
			pdf.AddPage()
			y = marginTop
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "Assembly", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		for _, a := range p.AssemblyProcesses {
			if y > pageHeight-marginBottom-5 {
				pdf.AddPage()
				y = marginTop
			}
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %.2f min [%s]", a.Name, a.EstimatedTime, a.Status)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	drawFooter(pdf)
}

// renderComponentPage draws one component: the panel on the left, its
// processes on the right.
func renderComponentPage(pdf *fpdf.Fpdf, pc model.ProductComponent, index int, lines []ProcessLine) {
	c := pc.Component

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Component %d: %s", index+1, c.Name)
	if c.Code != "" {
		title += " (" + c.Code + ")"
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("%s | %.0f x %.0f x %.0f mm | Qty: %d | Complexity: %s | Edges: %s | Progress: %.0f%%",
		c.Material, c.Size.Length, c.Size.Width, c.Size.Thickness, pc.Quantity, c.Complexity,
		c.EdgeBanding, engine.ComponentProgress(c))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawPanel(pdf, c, partColors[index%len(partColors)])

	// Process table to the right of the drawing.
	x := marginLeft + drawAreaW + 10
	y := drawAreaTop
	colWidths := []float64{18, 40, 32, 18, 18, 16}
	headers := []string{"Code", "Process", "Equipment", "Min", "Cost", "Status"}
	y = drawTableHeader(pdf, x, y, colWidths, headers)

	pdf.SetFont("Helvetica", "", 8)
	row := 0
	for _, l := range lines {
		if l.ComponentID != c.ID {
			continue
		}
		if y > pageHeight-marginBottom-statsHeight {
			break
		}
		minutes := fmt.Sprintf("%.2f", l.Minutes)
		if l.ActualMinutes != nil {
			minutes += fmt.Sprintf(" (%.0f)", *l.ActualMinutes)
		}
		drawTableRow(pdf, x, y, colWidths, row, []string{
			l.TemplateCode, l.TemplateName, l.Equipment, minutes, fmt.Sprintf("%.2f", l.Cost), string(l.Status),
		})
		y += rowHeight
		row++
	}
	if row == 0 {
		pdf.SetXY(x, y)
		pdf.CellFormat(100, rowHeight, "No processes", "", 0, "L", false, 0, "")
	}

	y = pageHeight - marginBottom - statsHeight + 4
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(x, y)
	totals := fmt.Sprintf("Time %.2f min | Material %.2f | Process %.2f | Total %.2f",
		c.TotalTime, c.MaterialCost, c.ProcessCost, c.TotalCost)
	pdf.CellFormat(pageWidth-x-marginRight, 5, totals, "", 0, "L", false, 0, "")

	drawFooter(pdf)
}

// drawPanel renders the component outline scaled into the drawing area with
// banded edges highlighted and its features listed beneath.
func drawPanel(pdf *fpdf.Fpdf, c model.Component, col partColor) {
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	if c.Size.Length <= 0 || c.Size.Width <= 0 {
		return
	}

	scale := math.Min(drawAreaW/c.Size.Length, drawHeight/c.Size.Width)
	canvasW := c.Size.Length * scale
	canvasH := c.Size.Width * scale
	offsetX := marginLeft + (drawAreaW-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.3)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawEdgeBanding(pdf, c.EdgeBanding, offsetX, offsetY, canvasW, canvasH)
	drawDimensionAnnotations(pdf, c.Size, offsetX, offsetY, canvasW, canvasH)

	if len(c.Features) == 0 {
		return
	}
	y := offsetY + canvasH + 7
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(30, 4, "Features:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	parts := make([]string, 0, len(c.Features))
	for _, f := range c.Features {
		parts = append(parts, fmt.Sprintf("%s (%s x%d)", f.Name, f.Type, f.Count))
	}
	pdf.SetXY(marginLeft+16, y)
	pdf.MultiCell(drawAreaW-16, 4, strings.Join(parts, ", "), "", "L", false)
}

// drawEdgeBanding thickens the banded edges of the panel outline.
func drawEdgeBanding(pdf *fpdf.Fpdf, e model.EdgeBanding, x, y, w, h float64) {
	pdf.SetDrawColor(139, 69, 19)
	pdf.SetLineWidth(1.2)
	if e.Top {
		pdf.Line(x, y, x+w, y)
	}
	if e.Bottom {
		pdf.Line(x, y+h, x+w, y+h)
	}
	if e.Left {
		pdf.Line(x, y, x, y+h)
	}
	if e.Right {
		pdf.Line(x+w, y, x+w, y+h)
	}
	pdf.SetLineWidth(0.3)
	pdf.SetDrawColor(0, 0, 0)
}

// drawDimensionAnnotations adds length and width labels outside the panel.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, size model.ComponentSize, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	lengthLabel := fmt.Sprintf("%.0f mm", size.Length)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")

	widthLabel := fmt.Sprintf("%.0f mm", size.Width)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-wLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawTableHeader draws a shaded header row and returns the y below it.
func drawTableHeader(pdf *fpdf.Fpdf, x, y float64, colWidths []float64, headers []string) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[i], rowHeight, header, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	return y + rowHeight
}

// drawTableRow draws one row with alternating background. Cells that do not
// fit their column are truncated.
func drawTableRow(pdf *fpdf.Fpdf, x, y float64, colWidths []float64, index int, cells []string) {
	if index%2 == 0 {
		pdf.SetFillColor(245, 245, 245)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	for j, cell := range cells {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[j], rowHeight, fitText(pdf, cell, colWidths[j]-2), "1", 0, "C", true, 0, "")
		x += colWidths[j]
	}
}

// fitText truncates s with an ellipsis until it fits width.
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func drawFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SlabCost - furniture process estimator", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
