package advisory

import "time"

// Category is the operational bucket an alert is classified into.
type Category string

const (
	CategoryWind        Category = "wind"
	CategoryRain        Category = "rain"
	CategorySnow        Category = "snow"
	CategoryTemperature Category = "temperature"
	CategoryStorm       Category = "storm"
)

// Severity is the dashboard's traffic-light severity scale.
type Severity string

const (
	SeverityYellow Severity = "yellow"
	SeverityAmber  Severity = "amber"
	SeverityRed    Severity = "red"
)

// UtilitiesSignal is a structured hint about expected utilities demand,
// derived from the advisory category. Omitted from the payload when no
// rule produces one.
type UtilitiesSignal struct {
	HeatingDemand string `json:"heatingDemand,omitempty"`
	CoolingDemand string `json:"coolingDemand,omitempty"`
	PowerRisk     bool   `json:"powerRisk,omitempty"`
}

// Advisory is a classified severe-weather warning scoped to one location.
type Advisory struct {
	Location          string           `json:"location"`
	AffectedSites     []string         `json:"affectedSites"`
	Category          Category         `json:"category"`
	Severity          Severity         `json:"severity"`
	Title             string           `json:"title"`
	Summary           string           `json:"summary"`
	StartTime         time.Time        `json:"startTime"`
	EndTime           time.Time        `json:"endTime"`
	OperationalImpact string           `json:"operationalImpact"`
	UtilitiesSignal   *UtilitiesSignal `json:"utilitiesSignal,omitempty"`
}

// CurrentConditions is the normalized current-weather block for a location.
type CurrentConditions struct {
	Temperature          float64 `json:"temperature"`
	FeelsLike            float64 `json:"feelsLike"`
	ConditionLabel       string  `json:"conditionLabel"`
	ConditionDescription string  `json:"conditionDescription"`
	HumidityPercent      float64 `json:"humidityPercent"`
	WindSpeedKph         float64 `json:"windSpeedKph"`
	IconCode             string  `json:"iconCode"`
}

// OutlookDay is one entry of the short-term daily outlook.
type OutlookDay struct {
	Date                       string  `json:"date"`
	WeekdayLabel               string  `json:"weekdayLabel"`
	High                       float64 `json:"high"`
	Low                        float64 `json:"low"`
	ConditionLabel             string  `json:"conditionLabel"`
	ConditionDescription       string  `json:"conditionDescription"`
	PrecipitationChancePercent int     `json:"precipitationChancePercent"`
	IconCode                   string  `json:"iconCode"`
}

// ForecastBundle is current conditions plus up to five days of outlook
// for one location.
type ForecastBundle struct {
	Location      string            `json:"location"`
	AffectedSites []string          `json:"affectedSites"`
	Current       CurrentConditions `json:"current"`
	DailyOutlook  []OutlookDay      `json:"dailyOutlook"`
}

// Payload is the fully assembled response body for one aggregation pass.
type Payload struct {
	Advisories       []Advisory       `json:"advisories"`
	Forecasts        []ForecastBundle `json:"forecasts"`
	GeneratedAt      time.Time        `json:"generatedAt"`
	LocationsChecked int              `json:"locationsChecked"`
}
