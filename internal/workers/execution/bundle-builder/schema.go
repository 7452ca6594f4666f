package bundlebuilder

import "defi-strategy-agent/internal/common/validation"

// JobName is the job kind this computer serves.
const JobName = "execution_bundle_builder"

var requirementSchema = validation.Schema{
	{Name: "client_id", Type: validation.TypeString},
	{Name: "chain", Type: validation.TypeString},
	{Name: "desired_allocations", Type: validation.TypeObjectArray, Elem: validation.Schema{
		{Name: "asset_in", Type: validation.TypeString},
		{Name: "asset_out", Type: validation.TypeString},
		{Name: "amount_in", Type: validation.TypeNumber},
		{Name: "venue", Type: validation.TypeString},
	}},
	{Name: "slippage_bps", Type: validation.TypeNumber, Optional: true},
	{Name: "deadline_seconds", Type: validation.TypeNumber, Optional: true},
	{Name: "prefer_batching", Type: validation.TypeBool, Optional: true},
}
