/**
 * @description
 * This file contains the charity-matching scoring engine: a pure, deterministic
 * weighted-attribute similarity function between a user's quiz answers and the
 * charity catalog. It performs no I/O and holds no state, so the API layer can
 * recompute matches on every answer change.
 *
 * Key features:
 * - Fixed attribute weights summing to 1.0 (category dominates at 0.40).
 * - Ordinal budget-vs-size comparison on a shared low..very_high scale.
 * - Size adjacency half-credit for one-step mismatches (large<->medium,
 *   small<->medium).
 * - Total function: unknown or malformed answer values contribute zero,
 *   never an error.
 *
 * @dependencies
 * - math, sort: Standard Go libraries.
 * - internal/domain: Charity and quiz models.
 */

package matching

import (
	"math"
	"sort"

	"github.com/givechain/donation-service/internal/domain"
)

// Attribute weights. They sum to 1.0 so a fully satisfied profile scores 100.
const (
	weightCategory     = 0.40
	weightBudget       = 0.20
	weightImpact       = 0.15
	weightGeography    = 0.10
	weightTransparency = 0.10
	weightSize         = 0.05
)

// ordinalScale maps both the user's budget preference and a charity's
// organizational size onto one shared scale. Reusing the same table for two
// conceptually different preferences is the documented behavior of the
// scoring model and is kept intentionally; size values outside the table
// ("small", "large") score 0 on their side.
var ordinalScale = map[string]float64{
	"low":       0.25,
	"medium":    0.5,
	"high":      0.75,
	"very_high": 1.0,
}

// ComputeMatches scores every charity in the catalog against the given quiz
// answers and returns them sorted by descending match score. Charities with
// equal scores keep their relative catalog order. With no answers yet there
// is no ranking signal, so every charity comes back with score 0 in catalog
// order.
func ComputeMatches(catalog []domain.Charity, answers domain.QuizAnswers) []domain.MatchedCharity {
	matched := make([]domain.MatchedCharity, 0, len(catalog))

	if len(answers) == 0 {
		for _, c := range catalog {
			matched = append(matched, domain.MatchedCharity{Charity: c, MatchScore: 0})
		}
		return matched
	}

	for _, c := range catalog {
		matched = append(matched, domain.MatchedCharity{Charity: c, MatchScore: score(c, answers)})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].MatchScore > matched[j].MatchScore
	})
	return matched
}

// score computes the 0-100 integer match score for one charity.
func score(c domain.Charity, answers domain.QuizAnswers) int {
	var total float64

	if v, ok := answerString(answers, "category"); ok && v == c.Category {
		total += weightCategory
	}

	if v, ok := answerString(answers, "budget"); ok {
		// Undefined mappings score 0 on their side of the scale rather than
		// erroring.
		userScore := ordinalScale[v]
		charityScore := ordinalScale[c.Size]
		total += weightBudget * (1 - math.Abs(userScore-charityScore))
	}

	if v, ok := answerString(answers, "impact"); ok && v == c.Impact {
		total += weightImpact
	}

	if v, ok := answerString(answers, "geography"); ok && v == c.Geography {
		total += weightGeography
	}

	if v, ok := answerString(answers, "transparency"); ok && v == c.Transparency {
		total += weightTransparency
	}

	if v, ok := answerString(answers, "size"); ok {
		switch {
		case v == domain.SizeAny || v == c.Size:
			total += weightSize
		case sizeAdjacent(v, c.Size):
			total += weightSize * 0.5
		}
	}

	return clampScore(math.Round(total * 100))
}

// sizeAdjacent reports whether the user's size preference is one step away
// from the charity's size on the fixed adjacency table.
func sizeAdjacent(preferred, actual string) bool {
	switch {
	case preferred == domain.SizeLarge && actual == domain.SizeMedium:
		return true
	case preferred == domain.SizeSmall && actual == domain.SizeMedium:
		return true
	}
	return false
}

// answerString extracts a non-empty string answer for the given question id.
// Non-string values (multiselect slices, range numbers) are not usable by the
// per-attribute comparisons and report absent.
func answerString(answers domain.QuizAnswers, key string) (string, bool) {
	raw, ok := answers[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// clampScore keeps the rounded score inside [0,100]. The weights already sum
// to 1.0, so this only guards against drift if they are ever adjusted.
func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
