package engine

import (
	"fmt"

	"github.com/piwi3910/SlabCost/internal/model"
)

// Workbench owns one product and recomputes all of its derived fields after
// every mutation. There is no caching: each change triggers a full pass.
type Workbench struct {
	est     *Estimator
	product model.Product
}

// NewWorkbench takes a copy of p and recomputes it.
func NewWorkbench(est *Estimator, p model.Product) *Workbench {
	w := &Workbench{est: est, product: p.Clone()}
	w.product = w.est.RecomputeProduct(w.product)
	return w
}

// Product returns a copy of the current product.
func (w *Workbench) Product() model.Product {
	return w.product.Clone()
}

// Progress returns the product progress in percent.
func (w *Workbench) Progress() float64 {
	return ProductProgress(w.product)
}

func (w *Workbench) commit() {
	w.product = w.est.RecomputeProduct(w.product)
	w.product.Touch()
}

func (w *Workbench) component(id string) (*model.ProductComponent, error) {
	pc := w.product.FindComponent(id)
	if pc == nil {
		return nil, fmt.Errorf("component %s: %w", id, model.ErrNotFound)
	}
	return pc, nil
}

// Rename sets the product name, code and description.
func (w *Workbench) Rename(name, code, description string) {
	w.product.Name = name
	w.product.Code = code
	w.product.Description = description
	w.commit()
}

// SetStatus sets the product lifecycle status.
func (w *Workbench) SetStatus(s model.ProductStatus) {
	w.product.Status = s
	w.commit()
}

// AddComponent validates c and places it in the product.
func (w *Workbench) AddComponent(c model.Component, qty int, position string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if qty < 1 {
		return fmt.Errorf("%w: %s: placement quantity must be at least 1", model.ErrInvalidComponent, c.Name)
	}
	for _, p := range c.Processes {
		if w.est.Template(p.TemplateID) == nil {
			return fmt.Errorf("template %s: %w", p.TemplateID, model.ErrNotFound)
		}
	}
	w.product.AddComponent(c.Clone(), qty, position)
	w.commit()
	return nil
}

// UpdateComponent applies fn to the component and recomputes. If the result
// fails validation the change is rolled back.
func (w *Workbench) UpdateComponent(id string, fn func(*model.Component)) error {
	pc, err := w.component(id)
	if err != nil {
		return err
	}
	before := pc.Component.Clone()
	fn(&pc.Component)
	if err := pc.Component.Validate(); err != nil {
		pc.Component = before
		return err
	}
	w.commit()
	return nil
}

// ResizeComponent changes the dimensions of a component.
func (w *Workbench) ResizeComponent(id string, length, width, thickness float64) error {
	return w.UpdateComponent(id, func(c *model.Component) {
		c.Resize(length, width, thickness)
	})
}

// SetComplexity changes the complexity of a component.
func (w *Workbench) SetComplexity(id string, level model.Complexity) error {
	return w.UpdateComponent(id, func(c *model.Component) {
		c.Complexity = level
	})
}

// SetMaterial changes the material of a component.
func (w *Workbench) SetMaterial(id, material string) error {
	return w.UpdateComponent(id, func(c *model.Component) {
		c.Material = material
	})
}

// RemoveComponent removes a component and drops it from assembly steps.
func (w *Workbench) RemoveComponent(id string) error {
	if !w.product.RemoveComponent(id) {
		return fmt.Errorf("component %s: %w", id, model.ErrNotFound)
	}
	for i := range w.product.AssemblyProcesses {
		a := &w.product.AssemblyProcesses[i]
		kept := a.ComponentIDs[:0]
		for _, cid := range a.ComponentIDs {
			if cid != id {
				kept = append(kept, cid)
			}
		}
		a.ComponentIDs = kept
	}
	w.commit()
	return nil
}

// AddFeature adds a feature to a component and returns its ID.
func (w *Workbench) AddFeature(componentID, name string, t model.FeatureType, count int) (string, error) {
	var featureID string
	err := w.UpdateComponent(componentID, func(c *model.Component) {
		featureID = c.AddFeature(name, t, count).ID
	})
	if err != nil {
		return "", err
	}
	return featureID, nil
}

// RemoveFeature removes a feature from a component.
func (w *Workbench) RemoveFeature(componentID, featureID string) error {
	pc, err := w.component(componentID)
	if err != nil {
		return err
	}
	if !pc.Component.RemoveFeature(featureID) {
		return fmt.Errorf("feature %s: %w", featureID, model.ErrNotFound)
	}
	w.commit()
	return nil
}

// AddProcess attaches a process for an active template and returns its ID.
func (w *Workbench) AddProcess(componentID, templateID string) (string, error) {
	pc, err := w.component(componentID)
	if err != nil {
		return "", err
	}
	t := w.est.Template(templateID)
	if t == nil {
		return "", fmt.Errorf("template %s: %w", templateID, model.ErrNotFound)
	}
	if !t.IsActive {
		return "", fmt.Errorf("template %s is inactive", t.Code)
	}
	p := pc.Component.AddProcess(templateID)
	w.commit()
	return p.ID, nil
}

// RemoveProcess detaches a process from a component.
func (w *Workbench) RemoveProcess(componentID, processID string) error {
	pc, err := w.component(componentID)
	if err != nil {
		return err
	}
	if !pc.Component.RemoveProcess(processID) {
		return fmt.Errorf("process %s: %w", processID, model.ErrNotFound)
	}
	w.commit()
	return nil
}

// SetProcessStatus moves a process to any status.
func (w *Workbench) SetProcessStatus(componentID, processID string, s model.Status) error {
	pc, err := w.component(componentID)
	if err != nil {
		return err
	}
	if err := pc.Component.SetProcessStatus(processID, s); err != nil {
		return err
	}
	w.commit()
	return nil
}

// SetProcessEquipment overrides the equipment used to cost a process.
// An empty name reverts to the template's equipment.
func (w *Workbench) SetProcessEquipment(componentID, processID, equipment string) error {
	pc, err := w.component(componentID)
	if err != nil {
		return err
	}
	p := pc.Component.FindProcess(processID)
	if p == nil {
		return fmt.Errorf("process %s: %w", processID, model.ErrNotFound)
	}
	p.Equipment = equipment
	w.commit()
	return nil
}

// RecordActualTime stores the measured minutes of a process.
func (w *Workbench) RecordActualTime(componentID, processID string, minutes float64) error {
	pc, err := w.component(componentID)
	if err != nil {
		return err
	}
	p := pc.Component.FindProcess(processID)
	if p == nil {
		return fmt.Errorf("process %s: %w", processID, model.ErrNotFound)
	}
	p.ActualTime = &minutes
	w.commit()
	return nil
}

// AddAssemblyProcess appends an assembly step and returns its ID.
func (w *Workbench) AddAssemblyProcess(name string, minutes float64, componentIDs ...string) (string, error) {
	for _, id := range componentIDs {
		if _, err := w.component(id); err != nil {
			return "", err
		}
	}
	a := w.product.AddAssemblyProcess(name, minutes, componentIDs...)
	w.commit()
	return a.ID, nil
}

// SetAssemblyStatus moves an assembly step to any status.
func (w *Workbench) SetAssemblyStatus(id string, s model.Status) error {
	a := w.product.FindAssemblyProcess(id)
	if a == nil {
		return fmt.Errorf("assembly process %s: %w", id, model.ErrNotFound)
	}
	a.Status = s
	w.commit()
	return nil
}

// RemoveAssemblyProcess removes an assembly step.
func (w *Workbench) RemoveAssemblyProcess(id string) error {
	if !w.product.RemoveAssemblyProcess(id) {
		return fmt.Errorf("assembly process %s: %w", id, model.ErrNotFound)
	}
	w.commit()
	return nil
}
