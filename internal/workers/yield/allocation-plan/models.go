package allocationplan

import "defi-strategy-agent/internal/models"

// Preferences are the caller's planning knobs with documented defaults.
type Preferences struct {
	AllowLeverage bool `json:"allow_leverage"`
	AllowLockups  bool `json:"allow_lockups"`
	MaxPositions  int  `json:"max_positions"`
}

// APYTriple is a low/mid/high annualized yield estimate in percent.
type APYTriple struct {
	LowPct  float64 `json:"low_pct"`
	MidPct  float64 `json:"mid_pct"`
	HighPct float64 `json:"high_pct"`
}

// Bucket is one core/satellite/experimental allocation archetype.
type Bucket struct {
	Archetype          string    `json:"archetype"`
	Weight             float64   `json:"weight"`
	AllocatedUSD       float64   `json:"allocated_usd"`
	EstimatedAPY       APYTriple `json:"estimated_apy"`
	RiskScore          float64   `json:"risk_score"`
	Guardrail          string    `json:"guardrail"`
	ExampleInstruments []string  `json:"example_instruments"`
}

// Slot is one discrete position carved out of a bucket.
type Slot struct {
	Archetype       string  `json:"archetype"`
	SlotIndex       int     `json:"slot_index"`
	AllocatedUSD    float64 `json:"allocated_usd"`
	EstimatedAPYPct float64 `json:"estimated_apy_pct"`
	RiskScore       float64 `json:"risk_score"`
}

// RebalancePolicy recommends a review cadence and qualitative triggers.
type RebalancePolicy struct {
	ReviewCadenceDays int      `json:"review_cadence_days"`
	Triggers          []string `json:"triggers"`
}

// ScenarioAnalysis holds non-annualized horizon return estimates in percent.
type ScenarioAnalysis struct {
	HorizonDays   float64 `json:"horizon_days"`
	BearReturnPct float64 `json:"bear_return_pct"`
	BaseReturnPct float64 `json:"base_return_pct"`
	BullReturnPct float64 `json:"bull_return_pct"`
}

// Output is the portfolio_yield_allocation_plan deliverable.
type Output struct {
	models.Meta
	ClientID                 string           `json:"client_id"`
	Chain                    string           `json:"chain"`
	StartingCapitalUSD       float64          `json:"starting_capital_usd"`
	RiskTolerance            string           `json:"risk_tolerance"`
	HorizonDays              float64          `json:"horizon_days"`
	Preferences              Preferences      `json:"preferences"`
	BucketAllocations        []Bucket         `json:"bucket_allocations"`
	PositionAllocationsView  []Slot           `json:"position_allocations_view"`
	PortfolioEstimatedAPYPct float64          `json:"portfolio_estimated_apy_pct"`
	PortfolioRiskScore       float64          `json:"portfolio_risk_score"`
	RebalancingPolicy        RebalancePolicy  `json:"rebalancing_policy"`
	Scenarios                ScenarioAnalysis `json:"scenario_analysis"`
	Disclaimers              []string         `json:"disclaimers"`
}
