package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SlabCost/internal/model"
)

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estimate.pdf")
	p, store := recomputedDesk(t)

	if err := ExportPDF(path, p, store); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
	// Summary page plus one page per component.
	if info := len(data); info < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info)
	}
}

func TestExportPDF_EmptyProduct(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	p := model.NewProduct("Empty", "", "")

	err := ExportPDF(path, p, nil)
	if !errors.Is(err, ErrNoComponents) {
		t.Fatalf("expected ErrNoComponents, got %v", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("no file should be written for an empty product")
	}
}

func TestExportPDF_ManyComponents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.pdf")
	store := model.DefaultTemplateStore()
	p := model.NewProduct("Wardrobe wall with an unusually long descriptive name", "WW-1", "")
	for i := 0; i < 40; i++ {
		c := model.NewComponent(fmt.Sprintf("Shelf %d with a very long name that will not fit", i), 800, 300, 18, model.MaterialMDF, 1)
		c.AddProcess(store.FindByCode("CUT").ID)
		p.AddComponent(c, 1, "")
	}
	p.AddAssemblyProcess("Carcass", 30)

	if err := ExportPDF(path, p, &store); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
}

func TestExportPDF_DegenerateComponent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "degenerate.pdf")
	p := model.NewProduct("Odd", "", "")
	p.AddComponent(model.NewComponent("Zero", 0, 0, 18, model.MaterialMDF, 1), 1, "")

	if err := ExportPDF(path, p, nil); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
}

func TestExportPDF_InvalidPath(t *testing.T) {
	p, store := recomputedDesk(t)
	if err := ExportPDF(filepath.Join(t.TempDir(), "missing", "x.pdf"), p, store); err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestFitText(t *testing.T) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 9)

	if got := fitText(pdf, "Top", 50); got != "Top" {
		t.Errorf("expected short text unchanged, got %q", got)
	}
	long := strings.Repeat("Drawer front ", 10)
	got := fitText(pdf, long, 30)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis, got %q", got)
	}
	if pdf.GetStringWidth(got) > 30 {
		t.Errorf("truncated text is %f mm wide", pdf.GetStringWidth(got))
	}
}
