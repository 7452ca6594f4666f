package bundlebuilder

import "defi-strategy-agent/internal/models"

// Allocation is one desired position change from the requirement.
type Allocation struct {
	AssetIn  string  `json:"asset_in"`
	AssetOut string  `json:"asset_out"`
	AmountIn float64 `json:"amount_in"`
	Venue    string  `json:"venue"`
}

// Transaction is one synthesized placeholder transaction. The payload is an
// opaque hint, not calldata that could execute on chain.
type Transaction struct {
	Index           int     `json:"index"`
	ActionType      string  `json:"action_type"`
	AssetIn         string  `json:"asset_in"`
	AssetOut        string  `json:"asset_out"`
	AmountIn        float64 `json:"amount_in"`
	Venue           string  `json:"venue"`
	SizeBucket      string  `json:"size_bucket"`
	PriceImpactHint string  `json:"price_impact_hint"`
	TargetAddress   string  `json:"target_address"`
	Payload         string  `json:"payload"`
	GasLimitHint    int     `json:"gas_limit_hint"`
	SlippageBps     float64 `json:"slippage_bps"`
	DeadlineSeconds float64 `json:"deadline_seconds"`
}

// BatchingPlan groups transaction indices by venue, or marks sequential
// execution when batching is not preferred.
type BatchingPlan struct {
	Strategy      string           `json:"strategy"`
	GroupsByVenue map[string][]int `json:"groups_by_venue,omitempty"`
}

// Output is the execution_bundle_builder deliverable.
type Output struct {
	models.Meta
	ClientID         string        `json:"client_id"`
	Chain            string        `json:"chain"`
	SlippageBps      float64       `json:"slippage_bps"`
	DeadlineSeconds  float64       `json:"deadline_seconds"`
	PreferBatching   bool          `json:"prefer_batching"`
	Transactions     []Transaction `json:"transactions"`
	Batching         BatchingPlan  `json:"batching_plan"`
	EstimatedCostUSD float64       `json:"estimated_cost_usd"`
	Caveats          []string      `json:"caveats"`
}
