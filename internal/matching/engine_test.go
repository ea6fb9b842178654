package matching

import (
	"reflect"
	"testing"

	"github.com/givechain/donation-service/internal/domain"
)

func testCatalog() []domain.Charity {
	return []domain.Charity{
		{
			ID:           "ch_rainforest",
			Name:         "Rainforest Watch",
			Category:     "Environment",
			Impact:       domain.ImpactSystemic,
			Geography:    domain.GeographyInternational,
			Transparency: domain.TransparencyHigh,
			Size:         domain.SizeLarge,
		},
		{
			ID:           "ch_clinic",
			Name:         "Mobile Clinic Fund",
			Category:     "Health",
			Impact:       domain.ImpactDirect,
			Geography:    domain.GeographyLocal,
			Transparency: domain.TransparencyMedium,
			Size:         domain.SizeSmall,
		},
		{
			ID:           "ch_tutors",
			Name:         "Open Tutors",
			Category:     "Education",
			Impact:       domain.ImpactCommunity,
			Geography:    domain.GeographyNational,
			Transparency: domain.TransparencyHigh,
			Size:         domain.SizeMedium,
		},
	}
}

func TestComputeMatches_EmptyAnswersKeepsCatalogOrderWithZeroScores(t *testing.T) {
	catalog := testCatalog()
	matched := ComputeMatches(catalog, domain.QuizAnswers{})

	if len(matched) != len(catalog) {
		t.Fatalf("expected %d results, got %d", len(catalog), len(matched))
	}
	for i, m := range matched {
		if m.MatchScore != 0 {
			t.Fatalf("expected score 0 for %s, got %d", m.ID, m.MatchScore)
		}
		if m.ID != catalog[i].ID {
			t.Fatalf("expected catalog order preserved at %d, got %s", i, m.ID)
		}
	}
}

func TestComputeMatches_ScoresStayWithinBounds(t *testing.T) {
	answers := domain.QuizAnswers{
		"category":     "Environment",
		"budget":       "very_high",
		"impact":       domain.ImpactSystemic,
		"geography":    domain.GeographyInternational,
		"transparency": domain.TransparencyHigh,
		"size":         domain.SizeAny,
	}
	for _, m := range ComputeMatches(testCatalog(), answers) {
		if m.MatchScore < 0 || m.MatchScore > 100 {
			t.Fatalf("score out of range for %s: %d", m.ID, m.MatchScore)
		}
	}
}

func TestComputeMatches_PerfectProfileScoresHundred(t *testing.T) {
	// "medium" is the only size that also sits on the budget scale, so a
	// medium charity with a "medium" budget preference is the one profile
	// where every component contributes its full weight.
	answers := domain.QuizAnswers{
		"category":     "Education",
		"budget":       "medium",
		"impact":       domain.ImpactCommunity,
		"geography":    domain.GeographyNational,
		"transparency": domain.TransparencyHigh,
		"size":         domain.SizeMedium,
	}
	matched := ComputeMatches(testCatalog(), answers)

	if matched[0].ID != "ch_tutors" {
		t.Fatalf("expected ch_tutors first, got %s", matched[0].ID)
	}
	if matched[0].MatchScore != 100 {
		t.Fatalf("expected perfect score 100, got %d", matched[0].MatchScore)
	}
}

func TestComputeMatches_OffScaleSizesScoreZeroOnBudget(t *testing.T) {
	// "large" and "small" are not on the budget scale, so even an otherwise
	// perfect profile loses part of the budget component: 80 points from the
	// exact matches plus 0.20 * (1 - |0.75 - 0|) = 5 from budget.
	answers := domain.QuizAnswers{
		"category":     "Environment",
		"budget":       "high",
		"impact":       domain.ImpactSystemic,
		"geography":    domain.GeographyInternational,
		"transparency": domain.TransparencyHigh,
		"size":         domain.SizeLarge,
	}
	matched := ComputeMatches(testCatalog(), answers)

	if matched[0].ID != "ch_rainforest" {
		t.Fatalf("expected ch_rainforest first, got %s", matched[0].ID)
	}
	if matched[0].MatchScore != 85 {
		t.Fatalf("expected score 85 against a large charity, got %d", matched[0].MatchScore)
	}
}

func TestComputeMatches_Deterministic(t *testing.T) {
	answers := domain.QuizAnswers{
		"category": "Health",
		"budget":   "low",
		"size":     domain.SizeSmall,
	}
	first := ComputeMatches(testCatalog(), answers)
	second := ComputeMatches(testCatalog(), answers)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical output for identical inputs")
	}
}

func TestComputeMatches_TiesKeepCatalogOrder(t *testing.T) {
	catalog := []domain.Charity{
		{ID: "a", Category: "Arts"},
		{ID: "b", Category: "Arts"},
		{ID: "c", Category: "Arts"},
	}
	matched := ComputeMatches(catalog, domain.QuizAnswers{"category": "Arts"})

	for i, want := range []string{"a", "b", "c"} {
		if matched[i].ID != want {
			t.Fatalf("expected stable order at %d: want %s, got %s", i, want, matched[i].ID)
		}
	}
}

func TestComputeMatches_CategoryAndSizeRankAboveMismatch(t *testing.T) {
	catalog := []domain.Charity{
		{ID: "a", Category: "Environment", Size: domain.SizeLarge},
		{ID: "b", Category: "Health", Size: domain.SizeSmall},
	}
	answers := domain.QuizAnswers{"category": "Environment", "size": domain.SizeLarge}

	matched := ComputeMatches(catalog, answers)
	if matched[0].ID != "a" {
		t.Fatalf("expected charity a ranked first, got %s", matched[0].ID)
	}
	if matched[0].MatchScore <= matched[1].MatchScore {
		t.Fatalf("expected a to outscore b, got %d vs %d", matched[0].MatchScore, matched[1].MatchScore)
	}
}

func TestComputeMatches_SizeAdjacencyGivesHalfCredit(t *testing.T) {
	catalog := []domain.Charity{{ID: "m", Category: "Arts", Size: domain.SizeMedium}}

	adjacent := ComputeMatches(catalog, domain.QuizAnswers{"size": domain.SizeLarge})
	if adjacent[0].MatchScore != 3 { // round(0.05 * 0.5 * 100)
		t.Fatalf("expected half size credit to round to 3, got %d", adjacent[0].MatchScore)
	}

	exact := ComputeMatches(catalog, domain.QuizAnswers{"size": domain.SizeMedium})
	if exact[0].MatchScore != 5 {
		t.Fatalf("expected full size credit of 5, got %d", exact[0].MatchScore)
	}

	far := ComputeMatches(catalog, domain.QuizAnswers{"size": domain.SizeSmall})
	if far[0].MatchScore != 3 {
		t.Fatalf("expected small->medium adjacency credit of 3, got %d", far[0].MatchScore)
	}
}

func TestComputeMatches_BudgetDistancePenalty(t *testing.T) {
	catalog := []domain.Charity{{ID: "lg", Size: domain.SizeLarge}}

	// large is off the budget scale and maps to 0: a "low" (0.25) preference
	// is 0.25 away, so the budget component yields 0.20 * 0.75 = 15 points.
	matched := ComputeMatches(catalog, domain.QuizAnswers{"budget": "low"})
	if matched[0].MatchScore != 15 {
		t.Fatalf("expected budget distance score 15, got %d", matched[0].MatchScore)
	}
}

func TestComputeMatches_UnknownValuesContributeZero(t *testing.T) {
	catalog := []domain.Charity{{ID: "x", Category: "Environment", Size: "gigantic"}}
	answers := domain.QuizAnswers{
		"category": "Nonexistent",
		"budget":   "astronomical", // unknown on the ordinal scale -> both sides 0
		"impact":   42,             // malformed type degrades, never errors
		"size":     "tiny",
	}

	matched := ComputeMatches(catalog, answers)
	// budget contributes weight * (1 - |0 - 0|) = full 20 points; everything
	// else misses.
	if matched[0].MatchScore != 20 {
		t.Fatalf("expected degraded score 20, got %d", matched[0].MatchScore)
	}
}
