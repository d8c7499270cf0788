package model

import (
	"errors"
	"testing"
)

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	if cfg.HourlyRate != 50 {
		t.Errorf("expected hourly rate 50, got %v", cfg.HourlyRate)
	}
	if cfg.OverheadRate != 0.20 {
		t.Errorf("expected overhead 0.20, got %v", cfg.OverheadRate)
	}
	if cfg.ThickBoardThreshold != 25 {
		t.Errorf("expected threshold 25, got %v", cfg.ThickBoardThreshold)
	}
	if cfg.RecentProducts == nil {
		t.Error("RecentProducts should not be nil")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestAppConfigValidate(t *testing.T) {
	tests := []func(*AppConfig){
		func(c *AppConfig) { c.HourlyRate = -1 },
		func(c *AppConfig) { c.OverheadRate = -0.1 },
		func(c *AppConfig) { c.DefaultMaterialPrice = -5 },
		func(c *AppConfig) { c.DefaultEquipmentRate = -5 },
		func(c *AppConfig) { c.ThickBoardThreshold = 0 },
	}
	for i, mutate := range tests {
		cfg := DefaultAppConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("case %d: expected ErrInvalidConfig, got %v", i, err)
		}
	}
}

func TestAddRecentProduct(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentProduct("a.json", 3)
	cfg.AddRecentProduct("b.json", 3)
	cfg.AddRecentProduct("c.json", 3)
	cfg.AddRecentProduct("a.json", 3)
	cfg.AddRecentProduct("d.json", 3)

	want := []string{"d.json", "a.json", "c.json"}
	if len(cfg.RecentProducts) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.RecentProducts)
	}
	for i := range want {
		if cfg.RecentProducts[i] != want[i] {
			t.Errorf("expected %v, got %v", want, cfg.RecentProducts)
			break
		}
	}
}
