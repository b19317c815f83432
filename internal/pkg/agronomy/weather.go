package agronomy

import (
	"math"
	"time"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/helpers"
)

// WeatherAdvice derives field advice from a current observation
func WeatherAdvice(current models.CurrentWeather) models.AgriculturalAdvice {
	temp, humidity, rain := current.Temperature, current.Humidity, current.Rainfall
	var advice models.AgriculturalAdvice

	switch {
	case rain > 10:
		advice.Irrigation = "Heavy rainfall expected. Avoid irrigation and ensure proper drainage."
	case rain > 5:
		advice.Irrigation = "Moderate rainfall expected. Reduce irrigation accordingly."
	case temp > 35:
		advice.Irrigation = "High temperature. Increase irrigation frequency, preferably in early morning or evening."
	case humidity < 40:
		advice.Irrigation = "Low humidity. Monitor soil moisture and irrigate as needed."
	default:
		advice.Irrigation = "Normal irrigation schedule can be maintained."
	}

	switch {
	case humidity > 80 && temp > 20 && temp < 30:
		advice.PestControl = "High humidity and moderate temperature favor pest activity. Monitor crops closely."
	case rain > 0:
		advice.PestControl = "Rainfall may wash away pesticides. Reapply after rain if necessary."
	default:
		advice.PestControl = "Regular monitoring recommended. Weather conditions are moderate."
	}

	switch {
	case rain > 5:
		advice.Harvesting = "Avoid harvesting during or immediately after rainfall to prevent crop damage."
	case humidity < 60 && rain == 0:
		advice.Harvesting = "Good conditions for harvesting. Dry weather will help in proper drying."
	default:
		advice.Harvesting = "Monitor weather closely before planning harvest operations."
	}

	switch {
	case temp > 40:
		advice.General = "Extreme heat warning. Protect crops from heat stress and ensure adequate water supply."
	case temp < 10:
		advice.General = "Cold weather alert. Protect sensitive crops from frost damage."
	default:
		advice.General = "Weather conditions are favorable for normal farming operations."
	}

	return advice
}

// ForecastDailyAdvice evaluates the advice rules against a forecast day,
// treating the day's midpoint temperature as current.
func ForecastDailyAdvice(day models.DailyForecast) models.AgriculturalAdvice {
	return WeatherAdvice(models.CurrentWeather{
		Temperature: (day.Temperature.Min + day.Temperature.Max) / 2,
		Humidity:    day.Humidity,
		Rainfall:    day.Rainfall,
	})
}

// FallbackCurrent is the local snapshot served when the provider is unavailable
func FallbackCurrent() models.CurrentWeather {
	return models.CurrentWeather{
		Temperature:   28,
		FeelsLike:     30,
		Humidity:      65,
		Pressure:      1013,
		WindSpeed:     3.5,
		WindDirection: 180,
		Cloudiness:    40,
		Visibility:    10000,
		UVIndex:       models.Float(6),
		Rainfall:      0,
		Description:   "Partly cloudy",
		Icon:          "02d",
	}
}

const (
	DefaultForecastDays = 7
	MaxForecastDays     = 16
)

// ForecastDays maps a requested horizon onto 1..MaxForecastDays; zero or
// negative means DefaultForecastDays.
func ForecastDays(days int) int {
	switch {
	case days <= 0:
		return DefaultForecastDays
	case days > MaxForecastDays:
		return MaxForecastDays
	}
	return days
}

// FallbackForecast derives a flat forecast from the fallback snapshot,
// starting at the calendar day of now. The horizon goes through ForecastDays.
func FallbackForecast(now time.Time, days int) []models.DailyForecast {
	days = ForecastDays(days)
	cur := FallbackCurrent()
	start := helpers.StartOfDay(now, now.Location())

	out := make([]models.DailyForecast, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, models.DailyForecast{
			Date:         start.AddDate(0, 0, i),
			Temperature:  models.DailyTemperature{Min: cur.Temperature - 5, Max: cur.Temperature + 5},
			Humidity:     cur.Humidity,
			WindSpeed:    cur.WindSpeed,
			Rainfall:     cur.Rainfall,
			ChanceOfRain: cur.Cloudiness,
			Description:  cur.Description,
			Icon:         cur.Icon,
		})
	}
	return out
}

// AgriculturalData is a field-level reading of the forecast
type AgriculturalData struct {
	SoilTemperature    float64  `json:"soilTemperature"`
	SoilMoisture       float64  `json:"soilMoisture"`
	Evapotranspiration float64  `json:"evapotranspiration"`
	GrowingDegreeDays  float64  `json:"growingDegreeDays"`
	FrostWarning       bool     `json:"frostWarning"`
	HeatStress         bool     `json:"heatStress"`
	HeavyRain          bool     `json:"heavyRain"`
	TotalRainfall      float64  `json:"totalRainfall"`
	Recommendations    []string `json:"recommendations"`
}

// GDDBaseTemperature is the base for growing degree days in °C
const GDDBaseTemperature = 10.0

// AgriculturalMetrics computes growing degree days, soil estimates,
// evapotranspiration and risk flags from a current reading and a daily forecast.
func AgriculturalMetrics(current models.CurrentWeather, daily []models.DailyForecast) AgriculturalData {
	gdd, totalRain := 0.0, 0.0
	frost := current.Temperature < 5
	heat := current.Temperature > 38

	for _, d := range daily {
		avg := (d.Temperature.Max + d.Temperature.Min) / 2
		if avg > GDDBaseTemperature {
			gdd += avg - GDDBaseTemperature
		}
		if d.Temperature.Min < 5 {
			frost = true
		}
		if d.Temperature.Max > 38 {
			heat = true
		}
		totalRain += d.Rainfall
	}

	moisture := 60.0
	switch {
	case current.Humidity > 70:
		moisture = 80
	case current.Humidity < 40:
		moisture = 30
	}

	data := AgriculturalData{
		SoilTemperature:    models.Round(current.Temperature-2, 1),
		SoilMoisture:       moisture,
		Evapotranspiration: models.Round(Evapotranspiration(current.Temperature, current.Humidity, current.WindSpeed), 1),
		GrowingDegreeDays:  math.Round(gdd),
		FrostWarning:       frost,
		HeatStress:         heat,
		HeavyRain:          totalRain > 50,
		TotalRainfall:      models.Round(totalRain, 1),
		Recommendations:    []string{},
	}

	if data.FrostWarning {
		data.Recommendations = append(data.Recommendations, "Frost warning: Protect sensitive crops with covers or mulching")
	}
	if data.HeatStress {
		data.Recommendations = append(data.Recommendations, "Heat stress alert: Increase irrigation frequency")
	}
	if current.Humidity < 40 {
		data.Recommendations = append(data.Recommendations, "Low humidity: Monitor crops for water stress")
	}
	if data.HeavyRain {
		data.Recommendations = append(data.Recommendations, "Heavy rainfall expected: Ensure proper field drainage")
	}

	return data
}

// Evapotranspiration is a simplified daily ET estimate in mm
func Evapotranspiration(temp, humidity, windSpeed float64) float64 {
	return 0.5*(temp/5)*(1-humidity/100) + windSpeed/10
}
