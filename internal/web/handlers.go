package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/menustat/menustat/internal/dataset"
	"github.com/menustat/menustat/internal/query"
)

// handleIndex serves the chart shell page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "frontend assets unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleMeta returns dataset identity and the queryable field lists.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	table := s.engine.Table()
	writeJSON(w, map[string]interface{}{
		"dataset_id":      table.ID().String(),
		"rows":            table.Len(),
		"nutrient_fields": dataset.NutrientFields(),
		"derived_fields":  dataset.DerivedFields(),
		"group_fields":    []string{dataset.FieldRestaurant, dataset.FieldFoodCategory},
	})
}

// handleRestaurants returns all distinct restaurant names.
func (s *Server) handleRestaurants(w http.ResponseWriter, r *http.Request) {
	values, err := s.engine.ListValues(dataset.FieldRestaurant)
	if err != nil {
		s.respondQueryError(w, r, err)
		return
	}
	writeJSON(w, values)
}

// handleCategories returns food category options, narrowed by the current
// restaurant selection. When only an item is selected its category is
// returned, so the frontend can autofill the remaining dropdowns.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	restaurant := r.URL.Query().Get("restaurant")
	item := r.URL.Query().Get("item")

	if item != "" && restaurant == "" {
		row, err := s.engine.LookupItem(item)
		if err != nil {
			s.respondQueryError(w, r, err)
			return
		}
		writeJSON(w, []string{row.FoodCategory})
		return
	}

	var filters []query.Filter
	if restaurant != "" {
		filters = append(filters, query.Filter{Field: dataset.FieldRestaurant, Value: restaurant})
	}

	values, err := s.engine.ListValues(dataset.FieldFoodCategory, filters...)
	if err != nil {
		s.respondQueryError(w, r, err)
		return
	}
	writeJSON(w, values)
}

// handleItems returns item name options matching the current restaurant and
// category selections. No selection means all items.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	var filters []query.Filter
	if restaurant := r.URL.Query().Get("restaurant"); restaurant != "" {
		filters = append(filters, query.Filter{Field: dataset.FieldRestaurant, Value: restaurant})
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filters = append(filters, query.Filter{Field: dataset.FieldFoodCategory, Value: category})
	}

	values, err := s.engine.ListValues(dataset.FieldItemName, filters...)
	if err != nil {
		s.respondQueryError(w, r, err)
		return
	}
	writeJSON(w, values)
}

// macroSlice is one slice of the macronutrient calorie breakdown.
type macroSlice struct {
	Label    string  `json:"label"`
	Calories float64 `json:"calories"`
}

// itemDetail is the full record of one item plus its calorie breakdown.
type itemDetail struct {
	dataset.MenuItem
	MacroCalories []macroSlice `json:"macro_calories"`
}

// handleItemDetail returns the first record matching the item name along
// with the macronutrient calorie breakdown. Unknown macro values are
// omitted so the pie chart never renders a zero-size slice for missing data.
func (s *Server) handleItemDetail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "missing item name")
		return
	}

	row, err := s.engine.LookupItem(name)
	if err != nil {
		s.respondQueryError(w, r, err)
		return
	}

	detail := itemDetail{MenuItem: row, MacroCalories: []macroSlice{}}
	for _, m := range []struct {
		label string
		value dataset.Value
	}{
		{"Carbohydrates", row.CarbCalories},
		{"Fats", row.FatCalories},
		{"Proteins", row.ProteinCalories},
	} {
		if m.value.Valid {
			detail.MacroCalories = append(detail.MacroCalories, macroSlice{Label: m.label, Calories: m.value.Float64})
		}
	}

	writeJSON(w, detail)
}

// handleCompare returns long-form (item, metric, amount) rows for the
// selected items and metrics. An incomplete selection is not an error: the
// frontend shows a placeholder for an empty row set.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	items := parseListParam(r, "items")
	metrics := parseListParam(r, "metrics")

	if len(items) == 0 || len(metrics) == 0 {
		writeJSON(w, compareResponse{Rows: []query.Comparison{}})
		return
	}

	rows, err := s.engine.CompareItems(items, metrics)
	if err != nil {
		s.respondQueryError(w, r, err)
		return
	}
	if rows == nil {
		rows = []query.Comparison{}
	}
	writeJSON(w, compareResponse{Rows: rows})
}

type compareResponse struct {
	Rows []query.Comparison `json:"rows"`
}

// handleDistribution returns the known values of a nutrient per group for
// box-plot rendering.
func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	nutrient := r.URL.Query().Get("nutrient")
	groupBy := r.URL.Query().Get("group_by")

	if nutrient == "" || groupBy == "" {
		writeJSON(w, distributionResponse{Groups: []query.GroupValues{}})
		return
	}

	groups, err := s.engine.Distribution(groupBy, nutrient)
	if err != nil {
		s.respondQueryError(w, r, err)
		return
	}
	if groups == nil {
		groups = []query.GroupValues{}
	}
	writeJSON(w, distributionResponse{Nutrient: nutrient, GroupBy: groupBy, Groups: groups})
}

type distributionResponse struct {
	Nutrient string              `json:"nutrient,omitempty"`
	GroupBy  string              `json:"group_by,omitempty"`
	Groups   []query.GroupValues `json:"groups"`
}

// maxTopN caps the top-N selector, matching the frontend input bounds.
const maxTopN = 50

// handleTopN returns the n items with the largest or smallest known values
// of a nutrient.
func (s *Server) handleTopN(w http.ResponseWriter, r *http.Request) {
	nutrient := r.URL.Query().Get("nutrient")
	if nutrient == "" {
		writeJSON(w, topNResponse{Rows: []query.Ranked{}})
		return
	}

	n := parseIntParam(r, "n", 10)
	if n > maxTopN {
		n = maxTopN
	}

	order := query.Descending
	if r.URL.Query().Get("order") == "asc" {
		order = query.Ascending
	}

	rows, err := s.engine.TopN(nutrient, n, order)
	if err != nil {
		s.respondQueryError(w, r, err)
		return
	}
	if rows == nil {
		rows = []query.Ranked{}
	}
	writeJSON(w, topNResponse{Nutrient: nutrient, Order: string(order), Rows: rows})
}

type topNResponse struct {
	Nutrient string         `json:"nutrient,omitempty"`
	Order    string         `json:"order,omitempty"`
	Rows     []query.Ranked `json:"rows"`
}

// handleAverages returns per-group nutrient means. The groups parameter
// restricts which restaurants or categories participate; absent means all.
func (s *Server) handleAverages(w http.ResponseWriter, r *http.Request) {
	groupBy := r.URL.Query().Get("group_by")
	if groupBy == "" {
		groupBy = dataset.FieldRestaurant
	}
	groups := parseListParam(r, "groups")
	nutrients := parseListParam(r, "nutrients")

	if len(nutrients) == 0 {
		writeJSON(w, averagesResponse{GroupBy: groupBy, Rows: []query.Average{}})
		return
	}

	rows, err := s.engine.GroupAverage(groupBy, groups, nutrients)
	if err != nil {
		s.respondQueryError(w, r, err)
		return
	}
	if rows == nil {
		rows = []query.Average{}
	}
	writeJSON(w, averagesResponse{GroupBy: groupBy, Rows: rows})
}

type averagesResponse struct {
	GroupBy string          `json:"group_by"`
	Rows    []query.Average `json:"rows"`
}

// handleSummary returns per-group statistics of one nutrient.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	nutrient := r.URL.Query().Get("nutrient")
	groupBy := r.URL.Query().Get("group_by")

	if nutrient == "" || groupBy == "" {
		writeJSON(w, summaryResponse{Rows: []query.Summary{}})
		return
	}

	rows, err := s.engine.StatisticalSummary(groupBy, nutrient)
	if err != nil {
		s.respondQueryError(w, r, err)
		return
	}
	if rows == nil {
		rows = []query.Summary{}
	}
	writeJSON(w, summaryResponse{Nutrient: nutrient, GroupBy: groupBy, Rows: rows})
}

type summaryResponse struct {
	Nutrient string          `json:"nutrient,omitempty"`
	GroupBy  string          `json:"group_by,omitempty"`
	Rows     []query.Summary `json:"rows"`
}

// respondQueryError maps query-layer sentinel errors to HTTP statuses.
func (s *Server) respondQueryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, query.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, query.ErrUnknownField):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
