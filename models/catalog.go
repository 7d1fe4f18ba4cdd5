package models

import "strings"

// carCatalog maps a car-model identifier to the feature pitch the
// conversational layer reads out. Static showroom copy, not scheduling data.
var carCatalog = map[string]string{
	"sedan":  "Our sedan models feature excellent fuel economy averaging 35 MPG, advanced safety features including automated emergency braking, and a spacious interior with premium sound system.",
	"suv":    "Our SUVs offer best-in-class cargo space, all-wheel drive capability, third-row seating options, and advanced driver assistance features like adaptive cruise control.",
	"truck":  "Our trucks boast impressive towing capacity up to 12,000 pounds, durable bed liners, advanced 4x4 systems, and fuel-efficient engine options.",
	"hybrid": "Our hybrid models deliver exceptional fuel efficiency up to 55 MPG, reduced emissions, regenerative braking systems, and a smooth, quiet ride.",
	"sports": "Our sports models feature high-performance engines with 0-60 times under 5 seconds, sport-tuned suspensions, premium audio systems, and sleek aerodynamic designs.",
}

// CarFeatures returns the feature description for a model, if known.
func CarFeatures(model string) (string, bool) {
	desc, ok := carCatalog[strings.ToLower(strings.TrimSpace(model))]
	return desc, ok
}

// CarModels lists the known model identifiers.
func CarModels() []string {
	models := make([]string, 0, len(carCatalog))
	for m := range carCatalog {
		models = append(models, m)
	}
	return models
}
