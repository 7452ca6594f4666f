package positionhealth

import "defi-strategy-agent/internal/models"

// Position is one monitored position from the requirement.
type Position struct {
	Protocol        string  `json:"protocol"`
	PoolAddress     string  `json:"pool_address"`
	PositionID      string  `json:"position_id"`
	HealthThreshold float64 `json:"health_threshold"`
}

// Assessment is the synthetic health verdict for one position.
type Assessment struct {
	Protocol             string   `json:"protocol"`
	PoolAddress          string   `json:"pool_address"`
	PositionID           string   `json:"position_id"`
	HealthThreshold      float64  `json:"health_threshold"`
	HealthScore          float64  `json:"health_score"`
	Breached             bool     `json:"breached"`
	Severity             string   `json:"severity"`
	LiquidationBufferPct float64  `json:"liquidation_buffer_pct"`
	Issues               []string `json:"issues"`
	Recommendations      []string `json:"recommendations"`
}

// Summary aggregates the per-position assessments.
type Summary struct {
	TotalPositions         int    `json:"total_positions"`
	BreachedPositions      int    `json:"breached_positions"`
	NearThresholdPositions int    `json:"near_threshold_positions"`
	Commentary             string `json:"commentary"`
}

// Output is the position_health_monitor deliverable.
type Output struct {
	models.Meta
	ClientID              string       `json:"client_id"`
	Chain                 string       `json:"chain"`
	NotifyChannel         string       `json:"notify_channel"`
	CheckFrequencyMinutes float64      `json:"check_frequency_minutes"`
	Assessments           []Assessment `json:"assessments"`
	Summary               Summary      `json:"summary"`
}
