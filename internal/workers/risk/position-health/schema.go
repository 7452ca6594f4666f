package positionhealth

import "defi-strategy-agent/internal/common/validation"

// JobName is the job kind this computer serves.
const JobName = "position_health_monitor"

var requirementSchema = validation.Schema{
	{Name: "client_id", Type: validation.TypeString},
	{Name: "chain", Type: validation.TypeString},
	{Name: "positions", Type: validation.TypeObjectArray, Elem: validation.Schema{
		{Name: "protocol", Type: validation.TypeString},
		{Name: "pool_address", Type: validation.TypeString},
		{Name: "position_id", Type: validation.TypeString},
		{Name: "health_threshold", Type: validation.TypeNumber},
	}},
	{Name: "notify_channel", Type: validation.TypeString},
	{Name: "check_frequency_minutes", Type: validation.TypeNumber},
}
