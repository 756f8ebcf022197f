package lexicon

// Provider ids for the default Toshl account setup, in display order.
var (
	defaultCategories = []Item{
		{Label: "FoodDrinks", ID: "45288150"},
		{Label: "Transport", ID: "45288154"},
		{Label: "Grocery", ID: "66315236"},
		{Label: "Other", ID: "49909576"},
		{Label: "ClothingFootwear", ID: "45288151"},
		{Label: "Goods", ID: "49627078"},
		{Label: "HealthPersonalCare", ID: "45288153"},
		{Label: "Fun", ID: "49627216"},
		{Label: "Sports", ID: "45288156"},
		{Label: "Salary", ID: "45288163"},
		{Label: "Bill", ID: "65656652"},
		{Label: "unsorted", ID: "unsorted"},
	}

	defaultTags = []Item{
		{Label: "Dating", ID: "19800891"},
		{Label: "Delivery", ID: "72377168"},
		{Label: "Lunch", ID: "18323682"},
		{Label: "Dinner", ID: "18323684"},
		{Label: "Drinks", ID: "18747482"},
		{Label: "Dessert", ID: "19170811"},
		{Label: "Snacks", ID: "18756337"},
		{Label: "BreakFast", ID: "18323679"},
		{Label: "Parking", ID: "18747614"},
		{Label: "Me", ID: "20034015"},
		{Label: "Movie", ID: "18758782"},
		{Label: "Fruit", ID: "22290902"},
		{Label: "TouchnGo", ID: "20124621"},
		{Label: "Petrol", ID: "19317448"},
		{Label: "Work", ID: "18650735"},
		{Label: "KTM", ID: "18635533"},
	}

	// presets reference labels; Default resolves them.
	defaultPresets = []presetDef{
		{Name: "Delivery Lunch", Category: "FoodDrinks", Tags: []string{"Dating", "Delivery", "Lunch"}},
		{Name: "Delivery Dinner", Category: "FoodDrinks", Tags: []string{"Dating", "Delivery", "Dinner"}},
		{Name: "Lunch", Category: "FoodDrinks", Tags: []string{"Dating", "Lunch"}},
		{Name: "Dinner", Category: "FoodDrinks", Tags: []string{"Dating", "Dinner"}},
	}
)

// DefaultCategories returns the built-in category table.
func DefaultCategories() *Lexicon { return MustNew(defaultCategories) }

// DefaultTags returns the built-in tag table.
func DefaultTags() *Lexicon { return MustNew(defaultTags) }

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := build(defaultCategories, defaultTags, defaultPresets)
	if err != nil {
		panic(err)
	}
	return c
}
