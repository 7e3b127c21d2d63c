package businessPlanController

import (
	"math"
	"strings"
)

// Expected sections of a complete business plan, in editor order.
var planSections = []string{
	"problem",
	"solution",
	"market",
	"team",
	"marketing",
	"operations",
	"financials",
	"impact",
}

// Sections considered critical when judging social/economic impact.
var impactSections = map[string]float64{
	"impact":     25,
	"financials": 15,
	"market":     10,
}

const substantiveLength = 50 // characters before a section counts as filled

// PlanCompletion scores how complete a plan is: full credit for substantive
// sections, half credit for started ones, as a rounded 0-100 percentage.
func PlanCompletion(sections map[string]string) float64 {
	if len(planSections) == 0 {
		return 0
	}

	filled := 0.0
	for _, name := range planSections {
		content := strings.TrimSpace(sections[name])
		if content == "" {
			continue
		}
		if len(content) >= substantiveLength {
			filled += 1
		} else {
			filled += 0.5
		}
	}

	return math.Round(filled / float64(len(planSections)) * 100)
}

// ImpactScore estimates a plan's impact readiness: half the score follows
// overall completion, the rest rewards substantive critical sections. Result
// is a rounded value in [0,100].
func ImpactScore(sections map[string]string) float64 {
	score := PlanCompletion(sections) * 0.5

	for name, weight := range impactSections {
		if len(strings.TrimSpace(sections[name])) >= substantiveLength {
			score += weight
		}
	}

	if score > 100 {
		score = 100
	}
	return math.Round(score)
}
