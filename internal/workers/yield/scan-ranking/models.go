package yieldscan

import "defi-strategy-agent/internal/models"

// Input documents the requirement fields; the computer itself reads the raw
// map so it can proceed on best-effort defaults when validation fails.
type Input struct {
	ClientID      string   `json:"client_id"`
	Chain         string   `json:"chain"`
	Assets        []string `json:"assets"`
	RiskTolerance string   `json:"risk_tolerance"`
	MinTVLUSD     float64  `json:"min_tvl_usd"`
	LookbackHours float64  `json:"lookback_hours"`
}

// RiskFactors is the synthetic per-factor risk breakdown of one venue.
type RiskFactors struct {
	SmartContract   float64 `json:"smart_contract"`
	Liquidity       float64 `json:"liquidity"`
	Depeg           float64 `json:"depeg"`
	ImpermanentLoss float64 `json:"impermanent_loss"`
}

// Venue is one synthesized venue variant for one asset.
type Venue struct {
	Asset           string      `json:"asset"`
	AssetClass      string      `json:"asset_class"`
	Venue           string      `json:"venue"`
	RiskBand        string      `json:"risk_band"`
	EstimatedAPYPct float64     `json:"estimated_apy_pct"`
	TVLUSD          float64     `json:"tvl_usd"`
	RiskScore       float64     `json:"risk_score"`
	UtilityScore    float64     `json:"utility_score"`
	RiskFactors     RiskFactors `json:"risk_factors"`
	FitExplanation  string      `json:"fit_explanation"`
}

// Output is the yield_scan_and_ranking deliverable.
type Output struct {
	models.Meta
	ClientID            string  `json:"client_id"`
	Chain               string  `json:"chain"`
	RiskTolerance       string  `json:"risk_tolerance"`
	MinTVLUSD           float64 `json:"min_tvl_usd"`
	LookbackHours       float64 `json:"lookback_hours"`
	RankedVenues        []Venue `json:"ranked_venues"`
	BestLowRisk         *Venue  `json:"best_low_risk"`
	BestAPY             *Venue  `json:"best_apy"`
	DiversificationHint string  `json:"diversification_hint"`
}
