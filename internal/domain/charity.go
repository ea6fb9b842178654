/**
 * @description
 * This file defines the core domain models for the donation-service's charity
 * catalog. These structs represent the entities used throughout the service's
 * business logic, storage interactions, and API layers.
 *
 * @notes
 * - Monetary amounts are expressed in the chain's native token as decimal
 *   values; the authoritative balances live on-chain, so the `RaisedAmount`
 *   here is an optimistic local cache, not a ledger.
 * - Enum-like attribute fields (impact, geography, transparency, size) are
 *   open strings; unknown values degrade gracefully during matching instead
 *   of erroring.
 */

package domain

// Recognised values for the enum-like charity attributes. The matching engine
// treats anything outside these sets as a non-match, never as an error.
const (
	ImpactDirect    = "direct"
	ImpactSystemic  = "systemic"
	ImpactResearch  = "research"
	ImpactCommunity = "community"

	GeographyLocal         = "local"
	GeographyNational      = "national"
	GeographyInternational = "international"

	TransparencyLow    = "low"
	TransparencyMedium = "medium"
	TransparencyHigh   = "high"

	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
	SizeAny    = "any"
)

// CharityUpdate is a dated narrative entry published by a charity.
type CharityUpdate struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// Charity is a catalog entry. It maps to the `charities` table when the
// catalog is hydrated from Postgres, and to the `charities` key in the
// durable KV store once the local cache has been seeded.
type Charity struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Impact       string          `json:"impact"`       // 'direct', 'systemic', 'research', 'community'
	Geography    string          `json:"geography"`    // 'local', 'national', 'international'
	Transparency string          `json:"transparency"` // 'high', 'medium', 'low'
	Size         string          `json:"size"`         // 'small', 'medium', 'large'
	Verified     bool            `json:"verified"`
	ImageURL     string          `json:"image_url"`
	TargetAmount float64         `json:"target_amount"`
	RaisedAmount float64         `json:"raised_amount"`
	Address      string          `json:"address"` // destination chain address for donations
	About        string          `json:"about"`
	Financials   string          `json:"financials"`
	Updates      []CharityUpdate `json:"updates"`
}

// ProgressPercent returns raised/target as a percentage clamped to [0,100].
// The raw ratio is not clamped at the source, so rendering paths must go
// through this accessor.
func (c Charity) ProgressPercent() float64 {
	if c.TargetAmount <= 0 {
		return 0
	}
	pct := c.RaisedAmount / c.TargetAmount * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// MatchedCharity is a Charity augmented with a computed 0-100 match score.
// It is ephemeral: recomputed on every answer change and never persisted.
type MatchedCharity struct {
	Charity
	MatchScore int `json:"match_score"`
}
