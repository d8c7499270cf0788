package model

import "strings"

// EdgeBanding records which edges of a panel receive banding tape.
// Top and Bottom run along the length, Left and Right along the width.
type EdgeBanding struct {
	Top    bool `json:"top"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
	Right  bool `json:"right"`
}

// AllEdges returns banding on all four edges.
func AllEdges() EdgeBanding {
	return EdgeBanding{Top: true, Bottom: true, Left: true, Right: true}
}

// HasAny reports whether at least one edge is banded.
func (e EdgeBanding) HasAny() bool {
	return e.Top || e.Bottom || e.Left || e.Right
}

// EdgeCount returns the number of banded edges.
func (e EdgeBanding) EdgeCount() int {
	n := 0
	for _, b := range []bool{e.Top, e.Bottom, e.Left, e.Right} {
		if b {
			n++
		}
	}
	return n
}

// LinearLength returns the banding length in mm for one piece.
func (e EdgeBanding) LinearLength(length, width float64) float64 {
	var total float64
	if e.Top {
		total += length
	}
	if e.Bottom {
		total += length
	}
	if e.Left {
		total += width
	}
	if e.Right {
		total += width
	}
	return total
}

func (e EdgeBanding) String() string {
	var edges []string
	if e.Top {
		edges = append(edges, "T")
	}
	if e.Bottom {
		edges = append(edges, "B")
	}
	if e.Left {
		edges = append(edges, "L")
	}
	if e.Right {
		edges = append(edges, "R")
	}
	if len(edges) == 0 {
		return "none"
	}
	return strings.Join(edges, "+")
}

// ParseEdgeBanding parses the String form ("T+B", "all", "none", "").
func ParseEdgeBanding(s string) EdgeBanding {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "", "NONE", "-":
		return EdgeBanding{}
	case "ALL":
		return AllEdges()
	}
	var e EdgeBanding
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '+' || r == ',' || r == ' ' }) {
		switch part {
		case "T", "TOP":
			e.Top = true
		case "B", "BOTTOM":
			e.Bottom = true
		case "L", "LEFT":
			e.Left = true
		case "R", "RIGHT":
			e.Right = true
		}
	}
	return e
}
