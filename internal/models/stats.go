package models

// Share is one bar of a percentage distribution.
type Share struct {
	Label   string
	Percent int
	Color   string
}

// Metric is a headline figure shown on the statistics tab.
type Metric struct {
	Value string
	Label string
}

type Statistics struct {
	Distribution []Share
	Summary      []Metric
}

// CityStatistics returns the fixed city-wide figures. They are not derived from
// any area registry.
func CityStatistics() Statistics {
	return Statistics{
		Distribution: []Share{
			{Label: "Wet Waste", Percent: 35, Color: "green"},
			{Label: "Dry Waste", Percent: 30, Color: "yellow"},
			{Label: "Hazardous Waste", Percent: 5, Color: "red"},
			{Label: "Recycled Waste", Percent: 30, Color: "blue"},
		},
		Summary: []Metric{
			{Value: "25%", Label: "Improvement in segregation"},
			{Value: "15 tons", Label: "Waste processed daily"},
			{Value: "85%", Label: "Citizen participation"},
		},
	}
}
