package allocationplan

import "defi-strategy-agent/internal/common/validation"

// JobName is the job kind this computer serves.
const JobName = "portfolio_yield_allocation_plan"

var requirementSchema = validation.Schema{
	{Name: "client_id", Type: validation.TypeString},
	{Name: "chain", Type: validation.TypeString},
	{Name: "starting_capital_usd", Type: validation.TypeNumber},
	{Name: "risk_tolerance", Type: validation.TypeString},
	{Name: "horizon_days", Type: validation.TypeNumber},
	{Name: "preferences", Type: validation.TypeObject, Optional: true, Elem: validation.Schema{
		{Name: "allow_leverage", Type: validation.TypeBool, Optional: true},
		{Name: "allow_lockups", Type: validation.TypeBool, Optional: true},
		{Name: "max_positions", Type: validation.TypeNumber, Optional: true},
	}},
}
