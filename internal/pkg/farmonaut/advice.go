package farmonaut

// FarmAdvice is short operational guidance for the day
type FarmAdvice struct {
	Irrigation string `json:"irrigation"`
	Planting   string `json:"planting"`
	Harvesting string `json:"harvesting"`
}

// orDefault treats a missing or zero reading as def
func orDefault(v *float64, def float64) float64 {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}

// Advice applies the irrigation, planting and harvesting rules. Missing
// readings default to 25 °C, 60 % humidity and no rain.
func Advice(w CurrentWeather) FarmAdvice {
	temp := orDefault(w.Temperature, 25)
	humidity := orDefault(w.Humidity, 60)
	rain := orDefault(w.Precipitation, 0)

	var a FarmAdvice
	switch {
	case rain > 10:
		a.Irrigation = "Heavy rainfall expected. Avoid irrigation for next 2-3 days."
	case temp > 35 && humidity < 40:
		a.Irrigation = "Hot and dry conditions. Increase irrigation frequency."
	case temp > 30:
		a.Irrigation = "Moderate irrigation recommended based on current conditions."
	default:
		a.Irrigation = "Normal irrigation schedule can be maintained."
	}

	switch {
	case rain > 20:
		a.Planting = "Heavy rainfall expected. Postpone planting activities."
	case temp < 15:
		a.Planting = "Temperature too low for most crops. Consider cold-hardy varieties."
	case temp > 35:
		a.Planting = "High temperatures. Consider heat-tolerant varieties or wait for cooler weather."
	default:
		a.Planting = "Good conditions for planting activities."
	}

	switch {
	case rain > 5:
		a.Harvesting = "Rainfall expected. Postpone harvesting to avoid crop damage."
	case humidity > 80:
		a.Harvesting = "High humidity. Ensure proper drying after harvest to prevent fungal growth."
	default:
		a.Harvesting = "Weather suitable for harvesting activities."
	}

	return a
}
