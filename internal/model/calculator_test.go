package model

import (
	"math"
	"testing"
)

func TestRound2HalfUp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1.234, 1.23},
		{1.236, 1.24},
		{0.125, 0.13},
		{-0.125, -0.12},
		{70.52, 70.52},
		{16.2, 16.2},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSquareMeters(t *testing.T) {
	if got := SquareMeters(1200 * 600); got != 0.72 {
		t.Errorf("expected 0.72 m², got %v", got)
	}
}

func TestProgress(t *testing.T) {
	if got := Progress(nil); got != 0 {
		t.Errorf("expected 0 for empty list, got %v", got)
	}
	got := Progress([]Status{StatusCompleted, StatusPending, StatusInProgress, StatusCompleted})
	if got != 50 {
		t.Errorf("expected 50, got %v", got)
	}
	if got := Progress([]Status{StatusCompleted}); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
}

func TestEdgeBanding(t *testing.T) {
	e := EdgeBanding{Top: true, Left: true}
	if e.EdgeCount() != 2 {
		t.Errorf("expected 2 edges, got %d", e.EdgeCount())
	}
	if got := e.LinearLength(1200, 600); got != 1800 {
		t.Errorf("expected 1800mm, got %v", got)
	}
	if e.String() != "T+L" {
		t.Errorf("expected T+L, got %s", e.String())
	}
	if (EdgeBanding{}).HasAny() {
		t.Error("empty banding should have no edges")
	}
	if ParseEdgeBanding("t+b+l+r") != AllEdges() {
		t.Error("expected all edges")
	}
	if ParseEdgeBanding("all") != AllEdges() {
		t.Error("expected all edges for 'all'")
	}
	if ParseEdgeBanding(e.String()) != e {
		t.Error("String/Parse round trip failed")
	}
	if ParseEdgeBanding("none").HasAny() {
		t.Error("expected no edges for 'none'")
	}
}
