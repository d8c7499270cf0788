package model

import "fmt"

// AppConfig holds application-wide preferences and default rates.
type AppConfig struct {
	// Quote settings
	HourlyRate   float64 `json:"hourly_rate"`   // labor cost per hour
	OverheadRate float64 `json:"overhead_rate"` // fraction, 0.20 = 20%

	// Fallbacks for names missing from the price book
	DefaultMaterialPrice float64 `json:"default_material_price"` // per m²
	DefaultEquipmentRate float64 `json:"default_equipment_rate"` // per hour

	// Boards thicker than this (mm) take longer and cost more
	ThickBoardThreshold float64 `json:"thick_board_threshold"`

	// Application preferences
	LogLevel       string   `json:"log_level"`
	LogJSON        bool     `json:"log_json"`
	RecentProducts []string `json:"recent_products"`
}

// DefaultAppConfig returns an AppConfig populated with the stock rates.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		HourlyRate:           50,
		OverheadRate:         0.20,
		DefaultMaterialPrice: 50,
		DefaultEquipmentRate: 80,
		ThickBoardThreshold:  25,
		LogLevel:             "info",
		LogJSON:              false,
		RecentProducts:       []string{},
	}
}

// ApplyToPriceBook copies the fallback price and rate into pb.
func (c AppConfig) ApplyToPriceBook(pb *PriceBook) {
	pb.DefaultMaterialPrice = c.DefaultMaterialPrice
	pb.DefaultEquipmentRate = c.DefaultEquipmentRate
}

// Validate rejects negative rates and a non-positive thickness threshold.
func (c AppConfig) Validate() error {
	switch {
	case c.HourlyRate < 0:
		return fmt.Errorf("%w: hourly_rate must not be negative", ErrInvalidConfig)
	case c.OverheadRate < 0:
		return fmt.Errorf("%w: overhead_rate must not be negative", ErrInvalidConfig)
	case c.DefaultMaterialPrice < 0:
		return fmt.Errorf("%w: default_material_price must not be negative", ErrInvalidConfig)
	case c.DefaultEquipmentRate < 0:
		return fmt.Errorf("%w: default_equipment_rate must not be negative", ErrInvalidConfig)
	case c.ThickBoardThreshold <= 0:
		return fmt.Errorf("%w: thick_board_threshold must be positive", ErrInvalidConfig)
	}
	return nil
}

// AddRecentProduct records path at the front of the recent list, keeping at
// most limit entries without duplicates.
func (c *AppConfig) AddRecentProduct(path string, limit int) {
	recent := []string{path}
	for _, p := range c.RecentProducts {
		if p != path && len(recent) < limit {
			recent = append(recent, p)
		}
	}
	c.RecentProducts = recent
}
