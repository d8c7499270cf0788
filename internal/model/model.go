package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.New().String()[:8]
}

func now() time.Time {
	return time.Now().UTC()
}

// Complexity is the qualitative machining difficulty of a component.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

var complexityFactors = map[Complexity]float64{
	ComplexitySimple:  1.0,
	ComplexityMedium:  1.3,
	ComplexityComplex: 1.8,
}

// Factor returns the time multiplier of the complexity level.
func (c Complexity) Factor() (float64, error) {
	f, ok := complexityFactors[c]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownComplexity, string(c))
	}
	return f, nil
}

// ParseComplexity accepts the level names case-insensitively.
func ParseComplexity(s string) (Complexity, error) {
	c := Complexity(strings.ToLower(strings.TrimSpace(s)))
	if _, err := c.Factor(); err != nil {
		return "", err
	}
	return c, nil
}

// Status is the progress state of a process. Any transition is allowed,
// including going back to an earlier state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus parses a status name. "in_progress" is accepted as well.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	switch st {
	case StatusPending, StatusInProgress, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// ProductStatus is the lifecycle state of a product design.
type ProductStatus string

const (
	ProductDesigning    ProductStatus = "designing"
	ProductInProduction ProductStatus = "in-production"
	ProductCompleted    ProductStatus = "completed"
)

// ParseProductStatus parses a product status name.
func ParseProductStatus(s string) (ProductStatus, error) {
	st := ProductStatus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	switch st {
	case ProductDesigning, ProductInProduction, ProductCompleted:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// FeatureType classifies a machining feature.
type FeatureType string

const (
	FeatureHole     FeatureType = "hole"
	FeatureGroove   FeatureType = "groove"
	FeatureChamfer  FeatureType = "chamfer"
	FeatureRounding FeatureType = "rounding"
	FeatureCustom   FeatureType = "custom"
)

var featureWeights = map[FeatureType]float64{
	FeatureHole:     0.10,
	FeatureGroove:   0.20,
	FeatureChamfer:  0.15,
	FeatureRounding: 0.25,
	FeatureCustom:   0,
}

// Weight is the per-unit contribution of a feature to the feature factor.
// Custom features carry no weight.
func (t FeatureType) Weight() float64 {
	return featureWeights[t]
}

// ParseFeatureType parses a feature type name.
func ParseFeatureType(s string) (FeatureType, error) {
	t := FeatureType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := featureWeights[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFeature, s)
	}
	return t, nil
}

// ComponentSize holds the panel dimensions in mm and the derived area (mm²)
// and volume (mm³).
type ComponentSize struct {
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Thickness float64 `json:"thickness"`
	Area      float64 `json:"area"`
	Volume    float64 `json:"volume"`
}

func NewComponentSize(length, width, thickness float64) ComponentSize {
	s := ComponentSize{}
	s.Resize(length, width, thickness)
	return s
}

// Resize sets the dimensions and re-derives area and volume.
func (s *ComponentSize) Resize(length, width, thickness float64) {
	s.Length = length
	s.Width = width
	s.Thickness = thickness
	s.Area = length * width
	s.Volume = length * width * thickness
}

// ComponentFeature is a counted machining feature such as a set of holes.
type ComponentFeature struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        FeatureType `json:"type"`
	Count       int         `json:"count"`
	Size        float64     `json:"size,omitempty"` // mm, e.g. hole diameter
	Position    string      `json:"position,omitempty"`
	Description string      `json:"description,omitempty"`
}

// ComponentProcess is one process applied to a component. TemplateID refers
// to a ProcessTemplate; CalculatedTime (minutes) and Cost are derived.
type ComponentProcess struct {
	ID             string   `json:"id"`
	TemplateID     string   `json:"template_id"`
	Equipment      string   `json:"equipment,omitempty"`
	CalculatedTime float64  `json:"calculated_time"`
	Cost           float64  `json:"cost"`
	ActualTime     *float64 `json:"actual_time,omitempty"`
	Status         Status   `json:"status"`
	Notes          string   `json:"notes,omitempty"`
}

// Component is a single furniture part.
type Component struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Code        string             `json:"code,omitempty"`
	Size        ComponentSize      `json:"size"`
	Material    string             `json:"material"`
	Quantity    int                `json:"quantity"`
	Complexity  Complexity         `json:"complexity"`
	EdgeBanding EdgeBanding        `json:"edge_banding"`
	Features    []ComponentFeature `json:"features"`
	Processes   []ComponentProcess `json:"processes"`

	// Derived by the estimation engine.
	TotalTime    float64 `json:"total_time"` // minutes
	MaterialCost float64 `json:"material_cost"`
	ProcessCost  float64 `json:"process_cost"`
	TotalCost    float64 `json:"total_cost"`

	Notes string `json:"notes,omitempty"`
}

func NewComponent(name string, length, width, thickness float64, material string, qty int) Component {
	return Component{
		ID:         newID(),
		Name:       name,
		Size:       NewComponentSize(length, width, thickness),
		Material:   material,
		Quantity:   qty,
		Complexity: ComplexitySimple,
		Features:   []ComponentFeature{},
		Processes:  []ComponentProcess{},
	}
}

// Resize changes the dimensions of the component.
func (c *Component) Resize(length, width, thickness float64) {
	c.Size.Resize(length, width, thickness)
}

// AddFeature appends a feature and returns it.
func (c *Component) AddFeature(name string, t FeatureType, count int) ComponentFeature {
	f := ComponentFeature{ID: newID(), Name: name, Type: t, Count: count}
	c.Features = append(c.Features, f)
	return f
}

// RemoveFeature removes a feature by ID. Returns true if found and removed.
func (c *Component) RemoveFeature(id string) bool {
	for i, f := range c.Features {
		if f.ID == id {
			c.Features = append(c.Features[:i], c.Features[i+1:]...)
			return true
		}
	}
	return false
}

// FeatureCount sums the counts of all features of type t.
func (c Component) FeatureCount(t FeatureType) int {
	n := 0
	for _, f := range c.Features {
		if f.Type == t {
			n += f.Count
		}
	}
	return n
}

// AddProcess attaches a pending process for the given template.
func (c *Component) AddProcess(templateID string) ComponentProcess {
	p := ComponentProcess{ID: newID(), TemplateID: templateID, Status: StatusPending}
	c.Processes = append(c.Processes, p)
	return p
}

// RemoveProcess removes a process by ID. Returns true if found and removed.
func (c *Component) RemoveProcess(id string) bool {
	for i, p := range c.Processes {
		if p.ID == id {
			c.Processes = append(c.Processes[:i], c.Processes[i+1:]...)
			return true
		}
	}
	return false
}

// FindProcess returns a pointer to the process with the given ID, or nil.
func (c *Component) FindProcess(id string) *ComponentProcess {
	for i := range c.Processes {
		if c.Processes[i].ID == id {
			return &c.Processes[i]
		}
	}
	return nil
}

// SetProcessStatus changes the status of one process.
func (c *Component) SetProcessStatus(id string, s Status) error {
	p := c.FindProcess(id)
	if p == nil {
		return fmt.Errorf("process %s: %w", id, ErrNotFound)
	}
	p.Status = s
	return nil
}

// Validate checks the user-editable fields of the component.
func (c Component) Validate() error {
	if c.Quantity < 1 {
		return fmt.Errorf("%w: %s: quantity must be at least 1, got %d", ErrInvalidComponent, c.Name, c.Quantity)
	}
	if c.Size.Length <= 0 || c.Size.Width <= 0 || c.Size.Thickness <= 0 {
		return fmt.Errorf("%w: %s: dimensions must be positive, got %gx%gx%g",
			ErrInvalidComponent, c.Name, c.Size.Length, c.Size.Width, c.Size.Thickness)
	}
	if _, err := c.Complexity.Factor(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidComponent, c.Name, err)
	}
	for _, f := range c.Features {
		if f.Count < 0 {
			return fmt.Errorf("%w: %s: feature %q has negative count", ErrInvalidComponent, c.Name, f.Name)
		}
	}
	return nil
}

// Clone returns a deep copy of the component.
func (c Component) Clone() Component {
	out := c
	out.Features = append([]ComponentFeature{}, c.Features...)
	out.Processes = make([]ComponentProcess, len(c.Processes))
	for i, p := range c.Processes {
		if p.ActualTime != nil {
			v := *p.ActualTime
			p.ActualTime = &v
		}
		out.Processes[i] = p
	}
	return out
}

// ProductComponent places a component in a product.
type ProductComponent struct {
	Component     Component `json:"component"`
	Quantity      int       `json:"quantity"`
	Position      string    `json:"position,omitempty"`
	AssemblyOrder int       `json:"assembly_order"`
}

// AssemblyProcess is a product-level step that joins components.
// EstimatedTime is entered by the user in minutes.
type AssemblyProcess struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	ComponentIDs  []string `json:"component_ids"`
	EstimatedTime float64  `json:"estimated_time"`
	Status        Status   `json:"status"`
	Notes         string   `json:"notes,omitempty"`
}

// QuoteBreakdown is the labor-based price of a product.
type QuoteBreakdown struct {
	MaterialCost float64 `json:"material_cost"`
	LaborMinutes float64 `json:"labor_minutes"`
	LaborCost    float64 `json:"labor_cost"`
	HourlyRate   float64 `json:"hourly_rate"`
	OverheadRate float64 `json:"overhead_rate"`
	Overhead     float64 `json:"overhead"`
	Total        float64 `json:"total"`
}

// Product is an assembly of components. All totals are derived.
type Product struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Code              string             `json:"code,omitempty"`
	Description       string             `json:"description,omitempty"`
	Components        []ProductComponent `json:"components"`
	AssemblyProcesses []AssemblyProcess  `json:"assembly_processes"`

	TotalComponents int            `json:"total_components"`
	TotalTime       float64        `json:"total_time"`    // Σ component total_time, minutes
	AssemblyTime    float64        `json:"assembly_time"` // Σ assembly estimated_time, minutes
	MaterialCost    float64        `json:"material_cost"`
	TotalCost       float64        `json:"total_cost"`
	Quote           QuoteBreakdown `json:"quote"`
	EstimatedCost   float64        `json:"estimated_cost"`

	Status    ProductStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewProduct(name, code, description string) Product {
	t := now()
	return Product{
		ID:                newID(),
		Name:              name,
		Code:              code,
		Description:       description,
		Components:        []ProductComponent{},
		AssemblyProcesses: []AssemblyProcess{},
		Status:            ProductDesigning,
		CreatedAt:         t,
		UpdatedAt:         t,
	}
}

// Touch sets UpdatedAt to the current time.
func (p *Product) Touch() {
	p.UpdatedAt = now()
}

// AddComponent places c in the product. Assembly order follows insertion.
func (p *Product) AddComponent(c Component, qty int, position string) *ProductComponent {
	p.Components = append(p.Components, ProductComponent{
		Component:     c,
		Quantity:      qty,
		Position:      position,
		AssemblyOrder: len(p.Components) + 1,
	})
	return &p.Components[len(p.Components)-1]
}

// RemoveComponent removes a component by ID. Returns true if found and removed.
func (p *Product) RemoveComponent(id string) bool {
	for i, pc := range p.Components {
		if pc.Component.ID == id {
			p.Components = append(p.Components[:i], p.Components[i+1:]...)
			return true
		}
	}
	return false
}

// FindComponent returns a pointer to the placed component with the given
// component ID, or nil.
func (p *Product) FindComponent(id string) *ProductComponent {
	for i := range p.Components {
		if p.Components[i].Component.ID == id {
			return &p.Components[i]
		}
	}
	return nil
}

// ComponentList returns the components without placement data.
func (p Product) ComponentList() []Component {
	out := make([]Component, len(p.Components))
	for i, pc := range p.Components {
		out[i] = pc.Component
	}
	return out
}

// AddAssemblyProcess appends a pending assembly step.
func (p *Product) AddAssemblyProcess(name string, minutes float64, componentIDs ...string) AssemblyProcess {
	a := AssemblyProcess{
		ID:            newID(),
		Name:          name,
		ComponentIDs:  append([]string{}, componentIDs...),
		EstimatedTime: minutes,
		Status:        StatusPending,
	}
	p.AssemblyProcesses = append(p.AssemblyProcesses, a)
	return a
}

// FindAssemblyProcess returns a pointer to the assembly step, or nil.
func (p *Product) FindAssemblyProcess(id string) *AssemblyProcess {
	for i := range p.AssemblyProcesses {
		if p.AssemblyProcesses[i].ID == id {
			return &p.AssemblyProcesses[i]
		}
	}
	return nil
}

// RemoveAssemblyProcess removes an assembly step by ID.
func (p *Product) RemoveAssemblyProcess(id string) bool {
	for i, a := range p.AssemblyProcesses {
		if a.ID == id {
			p.AssemblyProcesses = append(p.AssemblyProcesses[:i], p.AssemblyProcesses[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the product.
func (p Product) Clone() Product {
	out := p
	out.Components = make([]ProductComponent, len(p.Components))
	for i, pc := range p.Components {
		pc.Component = pc.Component.Clone()
		out.Components[i] = pc
	}
	out.AssemblyProcesses = make([]AssemblyProcess, len(p.AssemblyProcesses))
	for i, a := range p.AssemblyProcesses {
		a.ComponentIDs = append([]string{}, a.ComponentIDs...)
		out.AssemblyProcesses[i] = a
	}
	return out
}
