// Package importer reads and writes the flat CSV interchange format for
// categories. Import failures are collected per record so one bad row never
// aborts the batch.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"autoparts-catalog/internal/domain"
	"autoparts-catalog/internal/service/taxonomy"
)

// csvHeader is the transport field set, in column order. VehicleCategory is
// comma-joined inside its column.
var csvHeader = []string{
	"name",
	"slug",
	"description",
	"partType",
	"vehicleCategory",
	"compatibilityLevel",
	"isAutomotiveSpecific",
	"featured",
}

// CategoryCreator is the single write primitive the importer needs.
type CategoryCreator interface {
	Create(ctx context.Context, in taxonomy.CreateInput) (*domain.Category, error)
}

// RowError records one rejected record with its input line.
type RowError struct {
	Line    int    `json:"line"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Result summarizes a bulk import.
type Result struct {
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors"`
}

// CSVImporter feeds flat category records through the taxonomy service.
type CSVImporter struct {
	reader  *csv.Reader
	creator CategoryCreator
}

func NewCSVImporter(r io.Reader, creator CategoryCreator) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr, creator: creator}
}

// Run parses CSV rows and creates a category per row. Validation and
// duplicate-key failures are recorded per record; only read errors on the
// stream itself abort the run.
func (i *CSVImporter) Run(ctx context.Context) (*Result, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	result := &Result{}
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++

		in, err := parseRecord(record, index)
		if err != nil {
			result.Errors = append(result.Errors, RowError{
				Line:    line,
				Name:    in.Name,
				Message: err.Error(),
			})
			continue
		}
		if _, err := i.creator.Create(ctx, in); err != nil {
			result.Errors = append(result.Errors, RowError{
				Line:    line,
				Name:    in.Name,
				Message: err.Error(),
			})
			continue
		}
		result.Imported++
	}
	return result, nil
}

func parseRecord(record []string, index map[string]int) (taxonomy.CreateInput, error) {
	in := taxonomy.CreateInput{
		Name:               pick(record, index, "name"),
		Slug:               pick(record, index, "slug"),
		Description:        pick(record, index, "description"),
		PartType:           domain.PartType(pick(record, index, "partType")),
		CompatibilityLevel: domain.CompatibilityLevel(pick(record, index, "compatibilityLevel")),
	}

	if raw := pick(record, index, "vehicleCategory"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				in.VehicleCategories = append(in.VehicleCategories, domain.VehicleCategory(part))
			}
		}
	}
	if raw := pick(record, index, "isAutomotiveSpecific"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return in, fmt.Errorf("isAutomotiveSpecific %q is not a boolean", raw)
		}
		in.IsAutomotiveSpecific = &v
	}
	if raw := pick(record, index, "featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return in, fmt.Errorf("featured %q is not a boolean", raw)
		}
		in.Featured = v
	}
	return in, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, field string) string {
	i, ok := index[field]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
