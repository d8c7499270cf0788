package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/SlabCost/internal/engine"
	"github.com/piwi3910/SlabCost/internal/model"
)

// LabelInfo holds the data encoded into each component label's QR code.
type LabelInfo struct {
	ProductCode   string   `json:"product"`
	ComponentID   string   `json:"id"`
	Name          string   `json:"name"`
	Code          string   `json:"code,omitempty"`
	Length        float64  `json:"length_mm"`
	Width         float64  `json:"width_mm"`
	Thickness     float64  `json:"thickness_mm"`
	Material      string   `json:"material"`
	Edges         string   `json:"edges"`
	Processes     []string `json:"processes"`
	EstimatedTime float64  `json:"minutes"`
	Piece         int      `json:"piece"`
	Pieces        int      `json:"pieces"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded traveler labels, one per piece
// of every component of p. Each label shows the component, its size and its
// process route; the QR code encodes the same data as JSON.
func ExportLabels(path string, p model.Product, templates engine.TemplateLookup) error {
	labels := CollectLabelInfos(p, templates)
	if len(labels) == 0 {
		return fmt.Errorf("export labels %q: %w", p.Name, ErrNoComponents)
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.ComponentID, info.Piece)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fitText(pdf, info.Name, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f x %.0f x %.0f mm", info.Length, info.Width, info.Thickness)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fitText(pdf, info.Material+" | edges "+info.Edges, textW), "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, fitText(pdf, strings.Join(info.Processes, " > "), textW), "", 1, "L", false, 0, "")

	if info.Pieces > 1 {
		pdf.SetXY(textX, y+labelPadding+16)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, fmt.Sprintf("Piece %d of %d", info.Piece, info.Pieces), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos returns the label data for p: Quantity labels per
// component, numbered from 1.
func CollectLabelInfos(p model.Product, templates engine.TemplateLookup) []LabelInfo {
	var labels []LabelInfo
	for _, pc := range p.Components {
		c := pc.Component
		pieces := c.Quantity
		if pieces < 1 {
			pieces = 1
		}
		codes := processCodes(c, templates)
		for piece := 1; piece <= pieces; piece++ {
			labels = append(labels, LabelInfo{
				ProductCode:   p.Code,
				ComponentID:   c.ID,
				Name:          c.Name,
				Code:          c.Code,
				Length:        c.Size.Length,
				Width:         c.Size.Width,
				Thickness:     c.Size.Thickness,
				Material:      c.Material,
				Edges:         c.EdgeBanding.String(),
				Processes:     codes,
				EstimatedTime: c.TotalTime,
				Piece:         piece,
				Pieces:        pieces,
			})
		}
	}
	return labels
}
