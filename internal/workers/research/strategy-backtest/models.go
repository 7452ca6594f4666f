package strategybacktest

import "defi-strategy-agent/internal/models"

// EquityPoint is one sampled point of the synthetic equity curve.
type EquityPoint struct {
	Fraction     float64 `json:"fraction"`
	TimestampUTC string  `json:"timestamp_utc"`
	EquityUSD    float64 `json:"equity_usd"`
}

// Assumptions echoes the derived inputs the simulation ran on.
type Assumptions struct {
	ElapsedDays          float64 `json:"elapsed_days"`
	ComplexityFactor     float64 `json:"complexity_factor"`
	BaseAnnualReturnPct  float64 `json:"base_annual_return_pct"`
	KeywordAdjustmentPct float64 `json:"keyword_adjustment_pct"`
	NetAnnualReturnPct   float64 `json:"net_annual_return_pct"`
}

// Output is the strategy_backtest_report deliverable.
type Output struct {
	models.Meta
	ClientID           string        `json:"client_id"`
	Chain              string        `json:"chain"`
	StrategyName       string        `json:"strategy_name"`
	StartTimestamp     string        `json:"start_timestamp"`
	EndTimestamp       string        `json:"end_timestamp"`
	InitialCapitalUSD  float64       `json:"initial_capital_usd"`
	SimulatedActions   []string      `json:"simulated_actions"`
	TotalReturnPct     float64       `json:"total_return_pct"`
	EndingEquityUSD    float64       `json:"ending_equity_usd"`
	MaxDrawdownPct     float64       `json:"max_drawdown_pct"`
	VolatilityPct      float64       `json:"volatility_pct"`
	SharpeLikeRatio    float64       `json:"sharpe_like_ratio"`
	EquityCurve        []EquityPoint `json:"equity_curve"`
	AssumptionsApplied Assumptions   `json:"assumptions"`
	Disclaimers        []string      `json:"disclaimers"`
}
