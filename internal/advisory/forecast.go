package advisory

import (
	"math"
	"time"

	"github.com/i474232898/weather-advisory/internal/registry"
	"github.com/i474232898/weather-advisory/internal/upstream"
)

// maxOutlookDays bounds the daily outlook to today plus the next four days.
const maxOutlookDays = 5

// BuildForecast turns the provider's current conditions and daily forecast
// array into a ForecastBundle for the given location. Pure function.
func BuildForecast(current upstream.Current, daily []upstream.Daily, loc registry.Location) ForecastBundle {
	label, desc, icon := conditionOrDefault(current.Weather)

	bundle := ForecastBundle{
		Location:      loc.Name,
		AffectedSites: loc.SiteIDs,
		Current: CurrentConditions{
			Temperature:          current.Temp,
			FeelsLike:            current.FeelsLike,
			ConditionLabel:       label,
			ConditionDescription: desc,
			HumidityPercent:      current.Humidity,
			WindSpeedKph:         current.WindSpeed * 3.6,
			IconCode:             icon,
		},
	}

	days := daily
	if len(days) > maxOutlookDays {
		days = days[:maxOutlookDays]
	}

	bundle.DailyOutlook = make([]OutlookDay, 0, len(days))
	for _, d := range days {
		label, desc, icon := conditionOrDefault(d.Weather)
		date := time.Unix(d.Dt, 0).UTC()

		bundle.DailyOutlook = append(bundle.DailyOutlook, OutlookDay{
			Date:                       date.Format("2006-01-02"),
			WeekdayLabel:               date.Weekday().String(),
			High:                       d.Temp.Max,
			Low:                        d.Temp.Min,
			ConditionLabel:             label,
			ConditionDescription:       desc,
			PrecipitationChancePercent: int(math.Round(d.Pop * 100)),
			IconCode:                   icon,
		})
	}

	return bundle
}

// conditionOrDefault extracts the first weather-description sub-object,
// substituting defaults for anything missing.
func conditionOrDefault(ws []upstream.Weather) (label, desc, icon string) {
	label, desc, icon = "Unknown", "No description", "01d"
	if len(ws) == 0 {
		return label, desc, icon
	}
	w := ws[0]
	if w.Main != "" {
		label = w.Main
	}
	if w.Description != "" {
		desc = w.Description
	}
	if w.Icon != "" {
		icon = w.Icon
	}
	return label, desc, icon
}
