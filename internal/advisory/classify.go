package advisory

import (
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/weather-advisory/internal/registry"
	"github.com/i474232898/weather-advisory/internal/upstream"
)

// The classification rules below are ordered; the first match wins. The
// priority order is deliberate (a "severe gale with rain" is a wind
// advisory, not a rain one) and is exercised directly by the tests.

type categoryRule struct {
	keywords []string
	category Category
}

var categoryRules = []categoryRule{
	{[]string{"wind", "gale"}, CategoryWind},
	{[]string{"rain", "flood"}, CategoryRain},
	{[]string{"snow", "ice"}, CategorySnow},
	{[]string{"cold", "heat", "temperature"}, CategoryTemperature},
}

type severityRule struct {
	keywords []string
	severity Severity
}

var severityRules = []severityRule{
	{[]string{"severe", "extreme"}, SeverityRed},
	{[]string{"moderate", "strong"}, SeverityAmber},
}

type impactRule struct {
	matches func(cat Category, event string) bool
	impact  string
	signal  *UtilitiesSignal
}

var impactRules = []impactRule{
	{
		matches: func(cat Category, _ string) bool { return cat == CategoryWind },
		impact:  "Potential power outages, increased heating demand",
		signal:  &UtilitiesSignal{HeatingDemand: "high", PowerRisk: true},
	},
	{
		matches: func(cat Category, event string) bool {
			return cat == CategoryTemperature && strings.Contains(event, "cold")
		},
		impact: "Increased heating costs, potential pipe freeze risk",
		signal: &UtilitiesSignal{HeatingDemand: "high"},
	},
	{
		matches: func(cat Category, event string) bool {
			return cat == CategoryTemperature && strings.Contains(event, "heat")
		},
		impact: "Increased cooling costs, higher energy demand",
		signal: &UtilitiesSignal{CoolingDemand: "high"},
	},
	{
		matches: func(cat Category, _ string) bool { return cat == CategorySnow },
		impact:  "Increased heating demand, potential power disruptions",
		signal:  &UtilitiesSignal{HeatingDemand: "high", PowerRisk: true},
	},
	{
		matches: func(cat Category, _ string) bool { return cat == CategoryRain },
		impact:  "Minimal utilities impact, possible drainage issues",
	},
}

const defaultImpact = "Monitor utilities usage for potential increases"

// Classify turns one raw provider alert into an Advisory for the given
// location. Pure function, no I/O.
func Classify(raw upstream.Alert, loc registry.Location) Advisory {
	event := strings.ToLower(raw.Event)

	category := CategoryStorm
	for _, r := range categoryRules {
		if hasAny(event, r.keywords...) {
			category = r.category
			break
		}
	}

	severity := SeverityYellow
	for _, r := range severityRules {
		if hasAny(event, r.keywords...) {
			severity = r.severity
			break
		}
	}

	impact := defaultImpact
	var signal *UtilitiesSignal
	for _, r := range impactRules {
		if r.matches(category, event) {
			impact = r.impact
			if r.signal != nil {
				s := *r.signal
				signal = &s
			}
			break
		}
	}

	return Advisory{
		Location:          loc.Name,
		AffectedSites:     loc.SiteIDs,
		Category:          category,
		Severity:          severity,
		Title:             raw.Event,
		Summary:           firstSentence(raw.Description),
		StartTime:         time.Unix(raw.Start, 0).UTC(),
		EndTime:           time.Unix(raw.End, 0).UTC(),
		OperationalImpact: impact,
		UtilitiesSignal:   signal,
	}
}

// AlertKey is the uniqueness discriminator for one alert within a single
// aggregation pass: two alerts for the same location starting at the same
// instant are the same advisory, and the later one wins.
func AlertKey(raw upstream.Alert, loc registry.Location) string {
	return fmt.Sprintf("%s-%d", loc.Name, raw.Start)
}

// firstSentence returns the text before the first period, or the whole
// string when there is none.
func firstSentence(s string) string {
	if before, _, found := strings.Cut(s, "."); found {
		return before
	}
	return s
}

func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
