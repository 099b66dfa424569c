// Package query implements the read-only analytics operations over the
// loaded menu table. Every operation is a pure function of the immutable
// table plus its explicit parameters, so all of them are safe to call
// concurrently from any number of request handlers.
package query

import (
	"errors"
	"fmt"
	"sort"

	"github.com/menustat/menustat/internal/dataset"
)

var (
	// ErrNotFound is returned when a looked-up item does not exist.
	ErrNotFound = errors.New("item not found")

	// ErrUnknownField is returned for field names outside the table schema.
	ErrUnknownField = errors.New("unknown field")
)

// Order controls ranking direction for TopN.
type Order string

const (
	Ascending  Order = "ascending"
	Descending Order = "descending"
)

// Engine exposes the query operations over one loaded table.
type Engine struct {
	table *dataset.Table
}

// New returns an Engine over table.
func New(table *dataset.Table) *Engine {
	return &Engine{table: table}
}

// Table returns the underlying table.
func (e *Engine) Table() *dataset.Table {
	return e.table
}

// Filter is an equality constraint on a categorical field.
type Filter struct {
	Field string
	Value string
}

// ListValues returns the sorted, deduplicated values of a categorical field
// across rows matching all filters. No filters means all rows.
func (e *Engine) ListValues(field string, filters ...Filter) ([]string, error) {
	if _, ok := probe.Categorical(field); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	for _, f := range filters {
		if _, ok := probe.Categorical(f.Field); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, f.Field)
		}
	}

	set := make(map[string]struct{})
	for i := range e.table.Rows() {
		row := &e.table.Rows()[i]
		if !matchFilters(row, filters) {
			continue
		}
		v, _ := row.Categorical(field)
		if v != "" {
			set[v] = struct{}{}
		}
	}

	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// LookupItem returns the first row whose item name matches, or ErrNotFound.
func (e *Engine) LookupItem(name string) (dataset.MenuItem, error) {
	for _, row := range e.table.Rows() {
		if row.ItemName == name {
			return row, nil
		}
	}
	return dataset.MenuItem{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// FilterRows returns rows matching all supplied constraints (AND semantics).
// An empty string means no restriction on that field; supplying none returns
// every row.
func (e *Engine) FilterRows(restaurant, category, item string) []dataset.MenuItem {
	var out []dataset.MenuItem
	for _, row := range e.table.Rows() {
		if restaurant != "" && row.Restaurant != restaurant {
			continue
		}
		if category != "" && row.FoodCategory != category {
			continue
		}
		if item != "" && row.ItemName != item {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Comparison is one long-form cell of a side-by-side item comparison.
type Comparison struct {
	Item   string  `json:"item_name"`
	Metric string  `json:"metric"`
	Amount float64 `json:"amount"`
}

// CompareItems returns long-form (item, metric, amount) rows for the named
// items and nutrient metrics. Unknown amounts contribute no row, so a chart
// consumer never renders a missing measurement as zero. Either list empty
// yields an empty result.
func (e *Engine) CompareItems(names, metrics []string) ([]Comparison, error) {
	for _, m := range metrics {
		if _, ok := probe.Nutrient(m); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, m)
		}
	}
	if len(names) == 0 || len(metrics) == 0 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	var out []Comparison
	for i := range e.table.Rows() {
		row := &e.table.Rows()[i]
		if _, ok := wanted[row.ItemName]; !ok {
			continue
		}
		for _, m := range metrics {
			v, _ := row.Nutrient(m)
			if !v.Valid {
				continue
			}
			out = append(out, Comparison{Item: row.ItemName, Metric: m, Amount: v.Float64})
		}
	}
	return out, nil
}

// Average is one per-group mean of one nutrient.
type Average struct {
	Group    string        `json:"group"`
	Nutrient string        `json:"nutrient"`
	Mean     dataset.Value `json:"mean"`
}

// GroupAverage returns the per-group mean of each nutrient, ignoring Unknown
// values. groups restricts which group values participate; nil or empty means
// all. A group with zero known values for a nutrient reports an Unknown mean.
func (e *Engine) GroupAverage(groupField string, groups, nutrients []string) ([]Average, error) {
	if err := validateGroupField(groupField); err != nil {
		return nil, err
	}
	for _, n := range nutrients {
		if _, ok := probe.Nutrient(n); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, n)
		}
	}
	if len(nutrients) == 0 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		wanted[g] = struct{}{}
	}

	grouped := e.groupRows(groupField, func(g string) bool {
		if len(wanted) == 0 {
			return true
		}
		_, ok := wanted[g]
		return ok
	})

	var out []Average
	for _, g := range sortedKeys(grouped) {
		for _, n := range nutrients {
			var known []float64
			for _, row := range grouped[g] {
				if v, _ := row.Nutrient(n); v.Valid {
					known = append(known, v.Float64)
				}
			}
			out = append(out, Average{Group: g, Nutrient: n, Mean: mean(known)})
		}
	}
	return out, nil
}

// Ranked is one row of a top-N ranking.
type Ranked struct {
	Item       string  `json:"item_name"`
	Restaurant string  `json:"restaurant"`
	Amount     float64 `json:"amount"`
}

// TopN returns the n rows with the smallest (Ascending) or largest
// (Descending) known values of nutrient. Rows with an Unknown value are
// excluded before ranking; ties keep original row order. Fewer than n known
// rows returns all of them.
func (e *Engine) TopN(nutrient string, n int, order Order) ([]Ranked, error) {
	if _, ok := probe.Nutrient(nutrient); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, nutrient)
	}
	if n <= 0 {
		return nil, nil
	}

	var ranked []Ranked
	for i := range e.table.Rows() {
		row := &e.table.Rows()[i]
		v, _ := row.Nutrient(nutrient)
		if !v.Valid {
			continue
		}
		ranked = append(ranked, Ranked{Item: row.ItemName, Restaurant: row.Restaurant, Amount: v.Float64})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if order == Ascending {
			return ranked[i].Amount < ranked[j].Amount
		}
		return ranked[i].Amount > ranked[j].Amount
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// Summary holds the per-group statistics of one nutrient, each rounded to
// two decimal places. A group with zero known values reports all statistics
// as Unknown; standard deviation is Unknown when fewer than two values are
// known.
type Summary struct {
	Group  string        `json:"group"`
	Mean   dataset.Value `json:"mean"`
	Median dataset.Value `json:"median"`
	StdDev dataset.Value `json:"std_dev"`
	Min    dataset.Value `json:"min"`
	Max    dataset.Value `json:"max"`
}

// StatisticalSummary returns mean, median, sample standard deviation, min
// and max of nutrient per group, computed over known values only.
func (e *Engine) StatisticalSummary(groupField, nutrient string) ([]Summary, error) {
	if err := validateGroupField(groupField); err != nil {
		return nil, err
	}
	if _, ok := probe.Nutrient(nutrient); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, nutrient)
	}

	grouped := e.groupRows(groupField, nil)

	var out []Summary
	for _, g := range sortedKeys(grouped) {
		var known []float64
		for _, row := range grouped[g] {
			if v, _ := row.Nutrient(nutrient); v.Valid {
				known = append(known, v.Float64)
			}
		}
		out = append(out, Summary{
			Group:  g,
			Mean:   round2(mean(known)),
			Median: round2(median(known)),
			StdDev: round2(stdDev(known)),
			Min:    round2(minOf(known)),
			Max:    round2(maxOf(known)),
		})
	}
	return out, nil
}

// GroupValues holds the known values of one nutrient within one group,
// in original row order. This feeds box-plot style distribution charts.
type GroupValues struct {
	Group  string    `json:"group"`
	Values []float64 `json:"values"`
}

// Distribution returns the known values of nutrient per group.
func (e *Engine) Distribution(groupField, nutrient string) ([]GroupValues, error) {
	if err := validateGroupField(groupField); err != nil {
		return nil, err
	}
	if _, ok := probe.Nutrient(nutrient); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, nutrient)
	}

	grouped := e.groupRows(groupField, nil)

	var out []GroupValues
	for _, g := range sortedKeys(grouped) {
		gv := GroupValues{Group: g}
		for _, row := range grouped[g] {
			if v, _ := row.Nutrient(nutrient); v.Valid {
				gv.Values = append(gv.Values, v.Float64)
			}
		}
		out = append(out, gv)
	}
	return out, nil
}

// probe is used for field-name validation without needing a table row.
var probe dataset.MenuItem

// groupFields are the categorical columns usable as aggregation keys.
var groupFields = map[string]bool{
	dataset.FieldRestaurant:   true,
	dataset.FieldFoodCategory: true,
}

func matchFilters(row *dataset.MenuItem, filters []Filter) bool {
	for _, f := range filters {
		v, _ := row.Categorical(f.Field)
		if v != f.Value {
			return false
		}
	}
	return true
}

func validateGroupField(field string) error {
	if !groupFields[field] {
		return fmt.Errorf("%w: group field %q", ErrUnknownField, field)
	}
	return nil
}

// groupRows buckets rows by the group field value, preserving row order
// within each bucket. keep filters group values; nil keeps all. Rows with
// an empty group value are skipped.
func (e *Engine) groupRows(groupField string, keep func(string) bool) map[string][]*dataset.MenuItem {
	grouped := make(map[string][]*dataset.MenuItem)
	rows := e.table.Rows()
	for i := range rows {
		g, _ := rows[i].Categorical(groupField)
		if g == "" {
			continue
		}
		if keep != nil && !keep(g) {
			continue
		}
		grouped[g] = append(grouped[g], &rows[i])
	}
	return grouped
}

func sortedKeys(m map[string][]*dataset.MenuItem) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
