// Package importer provides CSV and Excel import functionality for component
// lists. It supports automatic delimiter detection, flexible column mapping,
// and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SlabCost/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Components []model.Component
	Errors     []string
	Warnings   []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// -1 means the column is absent.
type ColumnMapping struct {
	Name       int
	Code       int
	Length     int
	Width      int
	Thickness  int
	Material   int
	Quantity   int
	Complexity int
	Holes      int
	Grooves    int
	Chamfers   int
	Roundings  int
	Edges      int
	Processes  int
	Notes      int
}

func emptyMapping() ColumnMapping {
	return ColumnMapping{
		Name: -1, Code: -1, Length: -1, Width: -1, Thickness: -1,
		Material: -1, Quantity: -1, Complexity: -1,
		Holes: -1, Grooves: -1, Chamfers: -1, Roundings: -1,
		Edges: -1, Processes: -1, Notes: -1,
	}
}

// positionalMapping is used when the first row is not a header:
// Name, Length, Width, Thickness, Material, Quantity, Complexity.
func positionalMapping() ColumnMapping {
	m := emptyMapping()
	m.Name, m.Length, m.Width, m.Thickness = 0, 1, 2, 3
	m.Material, m.Quantity, m.Complexity = 4, 5, 6
	return m
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":       {"name", "label", "part", "part name", "component", "description", "item", "piece", "名称", "部件"},
	"code":       {"code", "part no", "part number", "sku", "编号", "编码"},
	"length":     {"length", "len", "l", "长", "长度"},
	"width":      {"width", "w", "宽", "宽度"},
	"thickness":  {"thickness", "thick", "t", "厚", "厚度"},
	"material":   {"material", "mat", "board", "材料", "板材"},
	"quantity":   {"quantity", "qty", "count", "pcs", "pieces", "数量"},
	"complexity": {"complexity", "level", "复杂度"},
	"holes":      {"holes", "hole", "hole count", "holecount", "孔", "孔数"},
	"grooves":    {"grooves", "groove", "groove count", "槽", "槽数"},
	"chamfers":   {"chamfers", "chamfer", "倒角"},
	"roundings":  {"roundings", "rounding", "round", "圆角"},
	"edges":      {"edges", "edge banding", "edgebanding", "edging", "banding", "封边"},
	"processes":  {"processes", "process", "operations", "工序"},
	"notes":      {"notes", "note", "remark", "remarks", "备注"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := emptyMapping()
	slots := map[string]*int{
		"name": &mapping.Name, "code": &mapping.Code,
		"length": &mapping.Length, "width": &mapping.Width, "thickness": &mapping.Thickness,
		"material": &mapping.Material, "quantity": &mapping.Quantity, "complexity": &mapping.Complexity,
		"holes": &mapping.Holes, "grooves": &mapping.Grooves,
		"chamfers": &mapping.Chamfers, "roundings": &mapping.Roundings,
		"edges": &mapping.Edges, "processes": &mapping.Processes, "notes": &mapping.Notes,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping(), false
	}
	return mapping, true
}

// parseEdges accepts the EdgeBanding string form or an edge count 0-4.
func parseEdges(s string) (model.EdgeBanding, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		switch n {
		case 0:
			return model.EdgeBanding{}, true
		case 1:
			return model.EdgeBanding{Top: true}, true
		case 2:
			return model.EdgeBanding{Top: true, Bottom: true}, true
		case 3:
			return model.EdgeBanding{Top: true, Bottom: true, Left: true}, true
		case 4:
			return model.AllEdges(), true
		}
		return model.EdgeBanding{}, false
	}
	e := model.ParseEdgeBanding(s)
	upper := strings.ToUpper(s)
	if !e.HasAny() && upper != "NONE" && upper != "-" {
		return e, false
	}
	return e, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDimension(row []string, idx int, rowLabel, name string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	if v <= 0 {
		return 0, fmt.Sprintf("%s: %s must be positive", rowLabel, strings.ToUpper(name[:1])+name[1:])
	}
	return v, ""
}

func parseCount(row []string, idx int, rowLabel, name string) (int, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, ""
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Sprintf("%s: Invalid %s count '%s'", rowLabel, name, s)
	}
	return n, ""
}

// parseRow extracts a Component from a row using the given column mapping.
// Returns the component, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, count int, store *model.TemplateStore) (model.Component, string, []string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Component %d", count+1)
	}

	length, errMsg := parseDimension(row, mapping.Length, rowLabel, "length")
	if errMsg != "" {
		return model.Component{}, errMsg, nil
	}
	width, errMsg := parseDimension(row, mapping.Width, rowLabel, "width")
	if errMsg != "" {
		return model.Component{}, errMsg, nil
	}
	thickness, errMsg := parseDimension(row, mapping.Thickness, rowLabel, "thickness")
	if errMsg != "" {
		return model.Component{}, errMsg, nil
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		n, err := strconv.Atoi(qtyStr)
		if err != nil {
			return model.Component{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), nil
		}
		if n <= 0 {
			return model.Component{}, fmt.Sprintf("%s: Quantity must be positive", rowLabel), nil
		}
		qty = n
	}

	features := []struct {
		idx  int
		name string
		t    model.FeatureType
	}{
		{mapping.Holes, "hole", model.FeatureHole},
		{mapping.Grooves, "groove", model.FeatureGroove},
		{mapping.Chamfers, "chamfer", model.FeatureChamfer},
		{mapping.Roundings, "rounding", model.FeatureRounding},
	}
	counts := make([]int, len(features))
	for i, f := range features {
		n, errMsg := parseCount(row, f.idx, rowLabel, f.name)
		if errMsg != "" {
			return model.Component{}, errMsg, nil
		}
		counts[i] = n
	}

	c := model.NewComponent(name, length, width, thickness, getCell(row, mapping.Material), qty)
	c.Code = getCell(row, mapping.Code)
	c.Notes = getCell(row, mapping.Notes)
	for i, f := range features {
		if counts[i] > 0 {
			c.AddFeature(strings.ToUpper(f.name[:1])+f.name[1:]+"s", f.t, counts[i])
		}
	}

	var warnings []string
	if s := getCell(row, mapping.Complexity); s != "" {
		level, err := model.ParseComplexity(s)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown complexity '%s', defaulting to simple", rowLabel, s))
		} else {
			c.Complexity = level
		}
	}
	if s := getCell(row, mapping.Edges); s != "" {
		edges, ok := parseEdges(s)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown edge banding '%s', defaulting to none", rowLabel, s))
		}
		c.EdgeBanding = edges
	}
	if s := getCell(row, mapping.Processes); s != "" {
		warnings = append(warnings, attachProcesses(&c, s, rowLabel, store)...)
	}

	return c, "", warnings
}

// attachProcesses adds a pending process for every template code in s.
// Codes are separated by '+', ';', '/' or whitespace.
func attachProcesses(c *model.Component, s, rowLabel string, store *model.TemplateStore) []string {
	if store == nil {
		return []string{fmt.Sprintf("%s: No template catalog, ignoring processes '%s'", rowLabel, s)}
	}
	var warnings []string
	codes := strings.FieldsFunc(s, func(r rune) bool {
		return r == '+' || r == ';' || r == '/' || r == ' ' || r == '\t'
	})
	for _, code := range codes {
		t := store.FindByCode(code)
		if t == nil {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown process code '%s', skipped", rowLabel, code))
			continue
		}
		c.AddProcess(t.ID)
	}
	return warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports components from a CSV file. Process codes in a
// "processes" column are resolved against store, which may be nil.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string, store *model.TemplateStore) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings, store)
}

// ImportCSVFromReader imports components from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, store *model.TemplateStore) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil, store)
}

// ImportExcel imports components from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string, store *model.TemplateStore) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil, store)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into components.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string, store *model.TemplateStore) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Thickness == -1 {
			missing = append(missing, "Thickness")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 4 {
		// An unrecognized header: the length column is not numeric.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		c, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Components), store)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Components = append(result.Components, c)
	}

	return result
}
