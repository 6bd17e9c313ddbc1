package usecase

import (
	"fmt"
	"slices"

	"github.com/roofleads/backend/internal/domain"
)

// Flow slugs with a scoring table
const (
	FlowRoofClaimDenial = "roof-claim-denial"
	FlowSprayVsSealant  = "roof-spray-vs-sealant-options"
	FlowDirtyRoofCosts  = "dirty-roof-costs"
)

// scorer turns one flow's answers into an assessment
type scorer func(domain.FlowAnswers) domain.Assessment

var scorers = map[string]scorer{
	FlowRoofClaimDenial: scoreClaimDenial,
	FlowSprayVsSealant:  scoreSprayVsSealant,
	FlowDirtyRoofCosts:  scoreDirtyRoofCosts,
}

// Score evaluates the answers of a flow with its decision table
func Score(flowSlug string, answers domain.FlowAnswers) (*domain.Assessment, error) {
	fn, ok := scorers[flowSlug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFlow, flowSlug)
	}
	a := fn(answers)
	return &a, nil
}

// containsAny reports whether any of want appears in have
func containsAny(have []string, want ...string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

// Roof claim denial

var claimLikelihoodText = map[string]string{
	"strong":   "Your denial reason and the type of damage you reported are commonly overturned during a second inspection, especially when documented correctly.",
	"moderate": "There are signs your claim may still have options, but we'll need a closer look at your roof and paperwork.",
	"unknown":  "We'll need to review your denial letter and roof condition to know where you stand.",
}

func scoreClaimDenial(a domain.FlowAnswers) domain.Assessment {
	damage := a.List("visibleDamage")
	denial := a.String("denialReason")

	likelihood := claimLikelihood(denial, damage)
	return domain.Assessment{
		QualifyScore: likelihood,
		UrgencyLevel: claimUrgency(damage),
		Details:      map[string]string{"assessment": claimLikelihoodText[likelihood]},
	}
}

func claimUrgency(damage []string) string {
	switch {
	case containsAny(damage, "leaks", "soft_spots"):
		return "high"
	case containsAny(damage, "missing_shingles", "lifted_shingles", "impact_marks", "granule_loss"):
		return "medium"
	case containsAny(damage, "not_sure"):
		return "unknown"
	}
	return "medium"
}

func claimLikelihood(denial string, damage []string) string {
	switch {
	case slices.Contains([]string{"wear_and_tear", "no_storm_event"}, denial) &&
		containsAny(damage, "missing_shingles", "lifted_shingles", "impact_marks", "leaks"):
		return "strong"
	case slices.Contains([]string{"not_severe_enough", "cosmetic_only", "not_covered"}, denial) &&
		containsAny(damage, "granule_loss", "missing_shingles", "lifted_shingles"):
		return "moderate"
	case denial == "other_unsure":
		return "unknown"
	}
	return "moderate"
}

// Spray vs sealant

var sprayFitText = map[string]string{
	"strong_fit":       "Your roof type and age fall into the range where spray rejuvenation usually performs the best, often improving flexibility and lifespan.",
	"possible_fit":     "Your roof may still be a candidate for spray or sealant treatment, but we'd need a closer look to compare the benefits of each option.",
	"needs_inspection": "Because of the age or current signs of leaks, we'd want to inspect the roof before recommending spray vs sealant. Repairs or replacement may be more appropriate.",
	"unknown":          "Your roof could still be a candidate, but we'll need a few more details or photos to determine whether spray or sealant is the better option.",
}

var shingleMaterials = []string{"asphalt_shingles", "architectural_shingles"}

func scoreSprayVsSealant(a domain.FlowAnswers) domain.Assessment {
	condition := a.List("roofCondition")

	fit := sprayFit(a.String("roofMaterial"), a.String("roofAge"), condition)
	return domain.Assessment{
		QualifyScore: fit,
		UrgencyLevel: sprayUrgency(condition),
		Details:      map[string]string{"assessment": sprayFitText[fit]},
	}
}

func sprayUrgency(condition []string) string {
	switch {
	case containsAny(condition, "active_leaks"):
		return "high"
	case containsAny(condition, "curling_brittle", "granules_in_gutters", "worn_faded"):
		return "medium"
	case containsAny(condition, "just_older", "not_sure_condition"):
		return "low"
	}
	return "medium"
}

func sprayFit(material, age string, condition []string) string {
	shingle := slices.Contains(shingleMaterials, material)
	leaking := containsAny(condition, "active_leaks")

	switch {
	case shingle && slices.Contains([]string{"5_10", "11_15", "16_20"}, age) && !leaking:
		return "strong_fit"
	case shingle && age == "21_25":
		return "possible_fit"
	case age == "26_plus_or_unknown" || leaking:
		return "needs_inspection"
	case slices.Contains([]string{"metal", "tile", "flat_low_slope", "not_sure"}, material):
		return "unknown"
	}
	return "possible_fit"
}

// Dirty roof costs

const (
	costMajor    = "major_cost_impact"
	costModerate = "moderate_cost_impact"
	costMinor    = "minor_cost_impact"
)

var homeValueImpact = map[string]string{
	costMajor:    "-3% to -5% of home value",
	costModerate: "-1% to -3% of home value",
	costMinor:    "Up to -1% of home value",
	"unknown":    "Varies - needs a closer look",
}

func scoreDirtyRoofCosts(a domain.FlowAnswers) domain.Assessment {
	impact := costImpact(a.List("roofSymptoms"), a.String("roofAge"), a.String("lastCleaned"))

	urgency := "low"
	switch impact {
	case costMajor:
		urgency = "high"
	case costModerate:
		urgency = "medium"
	}

	return domain.Assessment{
		QualifyScore: impact,
		UrgencyLevel: urgency,
		Details:      map[string]string{"estimatedHomeValueImpact": homeValueImpact[impact]},
	}
}

func costImpact(symptoms []string, age, cleaned string) string {
	heavy := containsAny(symptoms, "moss_lichen", "black_algae", "green_growth", "dark_streaks")
	older := slices.Contains([]string{"16_20", "21_25", "26_plus_or_unknown"}, age)
	neglected := slices.Contains([]string{"five_plus_years", "never_or_unknown"}, cleaned)
	if heavy && older && neglected {
		return costMajor
	}

	visible := containsAny(symptoms, "dark_streaks", "dull_faded", "granules_in_gutters")
	midAge := slices.Contains([]string{"10_15", "16_20"}, age)
	if visible && midAge {
		return costModerate
	}

	recent := slices.Contains([]string{"within_1_year", "one_to_three_years", "three_to_five_years"}, cleaned)
	newer := slices.Contains([]string{"under_10", "10_15"}, age)
	if slices.Contains(symptoms, "dull_faded") && newer && recent {
		return costMinor
	}

	if slices.Contains(symptoms, "not_sure") {
		return "unknown"
	}
	return costModerate
}
