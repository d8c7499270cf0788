package export

import (
	"testing"

	"go.uber.org/zap"

	"github.com/piwi3910/SlabCost/internal/engine"
	"github.com/piwi3910/SlabCost/internal/model"
)

// recomputedDesk returns the sample desk with every total derived.
func recomputedDesk(t *testing.T) (model.Product, *model.TemplateStore) {
	t.Helper()
	store := model.DefaultTemplateStore()
	est := engine.NewEstimator(&store, engine.WithLogger(zap.NewNop()))
	return est.RecomputeProduct(model.SampleDesk(&store)), &store
}

func TestProcessLines(t *testing.T) {
	p, store := recomputedDesk(t)
	lines := ProcessLines(p, store)

	if len(lines) != 15 {
		t.Fatalf("expected 15 process lines, got %d", len(lines))
	}
	first := lines[0]
	if first.ComponentName != "Desk top" || first.TemplateCode != "CUT" || first.TemplateName != "Panel cutting" {
		t.Errorf("unexpected first line %+v", first)
	}
	if first.Equipment != model.EquipmentCNCCutter {
		t.Errorf("expected template equipment, got %q", first.Equipment)
	}
	if first.Minutes != p.Components[0].Component.Processes[0].CalculatedTime {
		t.Errorf("expected calculated time, got %f", first.Minutes)
	}
}

func TestProcessLinesPrefersProcessEquipment(t *testing.T) {
	p, store := recomputedDesk(t)
	p.Components[0].Component.Processes[0].Equipment = model.EquipmentPanelSaw

	if got := ProcessLines(p, store)[0].Equipment; got != model.EquipmentPanelSaw {
		t.Errorf("expected process equipment, got %q", got)
	}
}

func TestProcessLinesWithoutTemplates(t *testing.T) {
	p, _ := recomputedDesk(t)
	lines := ProcessLines(p, nil)

	if len(lines) != 15 {
		t.Fatalf("expected 15 process lines, got %d", len(lines))
	}
	if lines[0].TemplateCode != "" || lines[0].TemplateName != lines[0].TemplateID {
		t.Errorf("expected template ID as name, got %+v", lines[0])
	}
}

func TestProcessCodes(t *testing.T) {
	p, store := recomputedDesk(t)
	leg := p.Components[1].Component

	got := processCodes(leg, store)
	want := []string{"CUT", "DRILL", "SAND", "PAINT"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("code %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
