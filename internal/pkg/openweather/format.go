package openweather

import (
	"math"
	"time"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/helpers"
)

type coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type mainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  float64 `json:"humidity"`
	Pressure  float64 `json:"pressure"`
}

type windBlock struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

type precipitation struct {
	OneHour   float64 `json:"1h"`
	ThreeHour float64 `json:"3h"`
}

type currentResponse struct {
	Name  string `json:"name"`
	Coord coord  `json:"coord"`
	Sys   struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main   mainBlock `json:"main"`
	Wind   windBlock `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Visibility float64        `json:"visibility"`
	Rain       *precipitation `json:"rain"`
	Weather    []condition    `json:"weather"`
	Dt         int64          `json:"dt"`
}

// ForecastItem is one three-hour step of the forecast list
type ForecastItem struct {
	Dt      int64          `json:"dt"`
	Main    mainBlock      `json:"main"`
	Wind    windBlock      `json:"wind"`
	Rain    *precipitation `json:"rain"`
	Pop     float64        `json:"pop"`
	Weather []condition    `json:"weather"`
}

type forecastResponse struct {
	List []ForecastItem `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
		Coord   coord  `json:"coord"`
	} `json:"city"`
}

func (r currentResponse) snapshot() *Snapshot {
	cond := firstCondition(r.Weather)
	rain := 0.0
	if r.Rain != nil {
		rain = r.Rain.OneHour
	}

	return &Snapshot{
		Location: models.WeatherLocation{
			Type:        "Point",
			Name:        r.Name,
			Country:     r.Sys.Country,
			Coordinates: []float64{r.Coord.Lon, r.Coord.Lat},
		},
		Current: models.CurrentWeather{
			Temperature:   r.Main.Temp,
			FeelsLike:     r.Main.FeelsLike,
			Humidity:      r.Main.Humidity,
			Pressure:      r.Main.Pressure,
			WindSpeed:     r.Wind.Speed,
			WindDirection: r.Wind.Deg,
			Cloudiness:    r.Clouds.All,
			Visibility:    r.Visibility,
			Rainfall:      rain,
			Description:   cond.Description,
			Icon:          cond.Icon,
		},
		ObservedAt: time.Unix(r.Dt, 0).UTC(),
	}
}

func firstCondition(list []condition) condition {
	if len(list) == 0 {
		return condition{}
	}
	return list[0]
}

type dayBucket struct {
	date      time.Time
	temps     []float64
	humidity  float64
	wind      float64
	rain      float64
	maxPop    float64
	condition condition
}

// AggregateForecast groups three-hour steps by UTC calendar date, keeping the
// order in which days first appear.
func AggregateForecast(items []ForecastItem) []models.DailyForecast {
	buckets := make(map[string]*dayBucket)
	order := make([]string, 0)

	for _, it := range items {
		ts := time.Unix(it.Dt, 0).UTC()
		key := ts.Format("2006-01-02")

		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{
				date:      helpers.StartOfDay(ts, time.UTC),
				condition: firstCondition(it.Weather),
			}
			buckets[key] = b
			order = append(order, key)
		}

		b.temps = append(b.temps, it.Main.Temp)
		b.humidity += it.Main.Humidity
		b.wind += it.Wind.Speed
		if it.Rain != nil {
			b.rain += it.Rain.ThreeHour
		}
		b.maxPop = math.Max(b.maxPop, it.Pop)
	}

	daily := make([]models.DailyForecast, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		n := float64(len(b.temps))
		lo, hi := b.temps[0], b.temps[0]
		for _, t := range b.temps[1:] {
			lo = math.Min(lo, t)
			hi = math.Max(hi, t)
		}

		daily = append(daily, models.DailyForecast{
			Date:         b.date,
			Temperature:  models.DailyTemperature{Min: lo, Max: hi},
			Humidity:     math.Round(b.humidity / n),
			WindSpeed:    models.Round(b.wind/n, 1),
			Rainfall:     models.Round(b.rain, 1),
			ChanceOfRain: math.Round(b.maxPop * 100),
			Description:  b.condition.Description,
			Icon:         b.condition.Icon,
		})
	}
	return daily
}

func hourly(items []ForecastItem) []models.HourlyForecast {
	out := make([]models.HourlyForecast, 0, len(items))
	for _, it := range items {
		rain := 0.0
		if it.Rain != nil {
			rain = it.Rain.ThreeHour
		}
		out = append(out, models.HourlyForecast{
			Timestamp:   time.Unix(it.Dt, 0).UTC(),
			Temperature: it.Main.Temp,
			Humidity:    it.Main.Humidity,
			WindSpeed:   it.Wind.Speed,
			Rainfall:    rain,
			Description: firstCondition(it.Weather).Description,
		})
	}
	return out
}
