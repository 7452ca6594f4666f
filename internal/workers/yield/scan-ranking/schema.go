package yieldscan

import "defi-strategy-agent/internal/common/validation"

// JobName is the job kind this computer serves.
const JobName = "yield_scan_and_ranking"

var requirementSchema = validation.Schema{
	{Name: "client_id", Type: validation.TypeString},
	{Name: "chain", Type: validation.TypeString},
	{Name: "assets", Type: validation.TypeStringArray},
	{Name: "risk_tolerance", Type: validation.TypeString},
	{Name: "min_tvl_usd", Type: validation.TypeNumber},
	{Name: "lookback_hours", Type: validation.TypeNumber},
}
