package dataset

// loader.go ingests the raw CSV and applies the cleaning pipeline:
//
//  1. read all rows with a permissive CSV reader
//  2. skip rows with a missing or unparseable serving_size
//  3. default serving_size_unit to "Unit" when absent
//  4. remove exact-duplicate rows over the retained columns
//  5. coerce the ten nutrition columns to numeric (failures become Unknown)
//  6. compute the derived macronutrient calorie fields
//
// Annotation columns in the source file (notes, matched_2021, the *_text
// duplicates of numeric columns) are dropped implicitly: only the retained
// schema is ever read.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// requiredColumns must be present in the CSV header.
// A missing column is a fatal schema error, distinct from per-row gaps.
var requiredColumns = []string{
	FieldRestaurant,
	FieldItemName,
	FieldFoodCategory,
	"serving_size",
}

// Load reads and cleans the menu nutrition CSV at path.
// An unreadable file or a header missing a required column is fatal; the
// process has no meaningful work to do without the dataset.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are tolerated; cells are looked up by header position

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset %s: empty file", path)
		}
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	idx := headerIndex(header)
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("dataset %s: missing required column %q", path, col)
		}
	}

	var (
		rows           []MenuItem
		skippedServing int
		duplicates     int
		seen           = make(map[string]struct{})
	)

	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset line %d: %w", line, err)
		}

		cell := func(col string) string {
			if i, ok := idx[col]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		// Rows without a usable serving size are excluded up front.
		serving := ParseValue(cell("serving_size"))
		if !serving.Valid {
			skippedServing++
			continue
		}

		unit := cell("serving_size_unit")
		if unit == "" {
			unit = "Unit"
		}

		raw := rawRetained(cell, unit)
		key := strings.Join(raw, "\x1f")
		if _, dup := seen[key]; dup {
			duplicates++
			continue
		}
		seen[key] = struct{}{}

		item := MenuItem{
			Restaurant:      cell(FieldRestaurant),
			ItemName:        cell(FieldItemName),
			FoodCategory:    cell(FieldFoodCategory),
			ItemDescription: cell("item_description"),
			ServingSize:     serving.Float64,
			ServingSizeUnit: unit,

			Calories:      ParseValue(cell("calories")),
			TotalFat:      ParseValue(cell("total_fat")),
			SaturatedFat:  ParseValue(cell("saturated_fat")),
			TransFat:      ParseValue(cell("trans_fat")),
			Cholesterol:   ParseValue(cell("cholesterol")),
			Sodium:        ParseValue(cell("sodium")),
			Carbohydrates: ParseValue(cell("carbohydrates")),
			DietaryFiber:  ParseValue(cell("dietary_fiber")),
			Sugar:         ParseValue(cell("sugar")),
			Protein:       ParseValue(cell("protein")),
		}

		// 4 kcal/g for carbohydrates and protein, 9 kcal/g for fat.
		item.CarbCalories = item.Carbohydrates.Scale(4)
		item.FatCalories = item.TotalFat.Scale(9)
		item.ProteinCalories = item.Protein.Scale(4)

		rows = append(rows, item)
	}

	table := &Table{id: uuid.New(), rows: rows}

	slog.Info("dataset loaded",
		"path", path,
		"dataset_id", table.id,
		"rows", len(rows),
		"skipped_missing_serving_size", skippedServing,
		"duplicates_removed", duplicates,
	)

	return table, nil
}

// headerIndex maps normalized column names to their position.
// The first occurrence of a name wins.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

// normalizeHeader lowercases a header cell and strips the parenthesized unit
// suffix the source file carries, so "Calories_(kCal)" binds to "calories"
// and "cholesterol_(mg/dL)" binds to "cholesterol".
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	if i := strings.Index(h, "("); i >= 0 {
		h = h[:i]
	}
	return strings.Trim(h, "_ ")
}

// rawRetained collects the raw cells of every retained column, in schema
// order, for exact-duplicate detection. Duplicates are judged on the raw
// text (after the unit default) so that two rows differing only in a
// dropped annotation column still collapse.
func rawRetained(cell func(string) string, unit string) []string {
	raw := []string{
		cell(FieldRestaurant),
		cell(FieldItemName),
		cell(FieldFoodCategory),
		cell("item_description"),
		cell("serving_size"),
		unit,
	}
	for _, n := range NutrientFields() {
		raw = append(raw, cell(n))
	}
	return raw
}
