package models

// WasteData is the composition of an area's waste, one percentage per category.
// The four values are independent display metrics; nothing forces them to sum to 100.
type WasteData struct {
	Wet       int `json:"wet"`
	Dry       int `json:"dry"`
	Hazardous int `json:"hazardous"`
	Recycled  int `json:"recycled"`
}

type Area struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	WasteData WasteData `json:"waste_data"`
}

// EvenSplit is the composition given to newly added areas.
func EvenSplit() WasteData {
	return WasteData{Wet: 25, Dry: 25, Hazardous: 25, Recycled: 25}
}

// SampleAreas returns the areas every registry starts with.
func SampleAreas() []Area {
	return []Area{
		{
			ID:        "area001",
			Name:      "Shivajinagar",
			WasteData: WasteData{Wet: 35, Dry: 30, Hazardous: 5, Recycled: 30},
		},
		{
			ID:        "area002",
			Name:      "Kothrud",
			WasteData: WasteData{Wet: 40, Dry: 25, Hazardous: 10, Recycled: 25},
		},
		{
			ID:        "area003",
			Name:      "Aundh",
			WasteData: WasteData{Wet: 30, Dry: 35, Hazardous: 5, Recycled: 30},
		},
	}
}
