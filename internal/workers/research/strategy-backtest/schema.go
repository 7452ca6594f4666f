package strategybacktest

import "defi-strategy-agent/internal/common/validation"

// JobName is the job kind this computer serves.
const JobName = "strategy_backtest_report"

var requirementSchema = validation.Schema{
	{Name: "client_id", Type: validation.TypeString},
	{Name: "chain", Type: validation.TypeString},
	{Name: "strategy_name", Type: validation.TypeString},
	{Name: "start_timestamp", Type: validation.TypeString},
	{Name: "end_timestamp", Type: validation.TypeString},
	{Name: "initial_capital_usd", Type: validation.TypeNumber},
	{Name: "simulated_actions", Type: validation.TypeStringArray},
}
