package dataset

// Canonical field names used by the query layer and the HTTP API.
// Nutrition column headers in the source CSV carry unit suffixes
// ("calories_(kCal)", "sodium_(mg)"); headers are normalized to these
// names at load.
const (
	FieldRestaurant   = "restaurant"
	FieldItemName     = "item_name"
	FieldFoodCategory = "food_category"
)

// NutrientFields lists the ten nutrition columns in source order.
func NutrientFields() []string {
	return []string{
		"calories",
		"total_fat",
		"saturated_fat",
		"trans_fat",
		"cholesterol",
		"sodium",
		"carbohydrates",
		"dietary_fiber",
		"sugar",
		"protein",
	}
}

// DerivedFields lists the macronutrient calorie fields computed at load.
func DerivedFields() []string {
	return []string{
		"carb_calories",
		"fat_calories",
		"protein_calories",
	}
}

// MenuItem is one row of the loaded table: a single menu item at a single
// restaurant with its nutrition facts per serving.
type MenuItem struct {
	Restaurant      string  `json:"restaurant"`
	ItemName        string  `json:"item_name"`
	FoodCategory    string  `json:"food_category"`
	ItemDescription string  `json:"item_description,omitempty"`
	ServingSize     float64 `json:"serving_size"`
	ServingSizeUnit string  `json:"serving_size_unit"`

	Calories      Value `json:"calories"`
	TotalFat      Value `json:"total_fat"`
	SaturatedFat  Value `json:"saturated_fat"`
	TransFat      Value `json:"trans_fat"`
	Cholesterol   Value `json:"cholesterol"`
	Sodium        Value `json:"sodium"`
	Carbohydrates Value `json:"carbohydrates"`
	DietaryFiber  Value `json:"dietary_fiber"`
	Sugar         Value `json:"sugar"`
	Protein       Value `json:"protein"`

	// Computed at load: carbohydrates*4, total_fat*9, protein*4.
	// Unknown when the source nutrient is Unknown.
	CarbCalories    Value `json:"carb_calories"`
	FatCalories     Value `json:"fat_calories"`
	ProteinCalories Value `json:"protein_calories"`
}

// Nutrient returns the named nutrition or derived field.
// The second return is false for unrecognized field names.
func (m *MenuItem) Nutrient(field string) (Value, bool) {
	switch field {
	case "calories":
		return m.Calories, true
	case "total_fat":
		return m.TotalFat, true
	case "saturated_fat":
		return m.SaturatedFat, true
	case "trans_fat":
		return m.TransFat, true
	case "cholesterol":
		return m.Cholesterol, true
	case "sodium":
		return m.Sodium, true
	case "carbohydrates":
		return m.Carbohydrates, true
	case "dietary_fiber":
		return m.DietaryFiber, true
	case "sugar":
		return m.Sugar, true
	case "protein":
		return m.Protein, true
	case "carb_calories":
		return m.CarbCalories, true
	case "fat_calories":
		return m.FatCalories, true
	case "protein_calories":
		return m.ProteinCalories, true
	}
	return Value{}, false
}

// Categorical returns the named text field.
// The second return is false for unrecognized field names.
func (m *MenuItem) Categorical(field string) (string, bool) {
	switch field {
	case FieldRestaurant:
		return m.Restaurant, true
	case FieldItemName:
		return m.ItemName, true
	case FieldFoodCategory:
		return m.FoodCategory, true
	}
	return "", false
}
