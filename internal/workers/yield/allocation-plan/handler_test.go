package allocationplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequirement() map[string]interface{} {
	return map[string]interface{}{
		"client_id":            "client-1",
		"chain":                "ethereum",
		"starting_capital_usd": float64(50_000),
		"risk_tolerance":       "balanced",
		"horizon_days":         float64(90),
		"preferences": map[string]interface{}{
			"allow_leverage": false,
			"allow_lockups":  true,
			"max_positions":  float64(6),
		},
	}
}

func TestCompute_ValidInput(t *testing.T) {
	out := Compute(validRequirement())

	assert.Equal(t, JobName, out.JobName)
	assert.True(t, out.ValidationPassed)
	assert.Empty(t, out.ValidationErrors)
	require.Len(t, out.BucketAllocations, 3)
	assert.Equal(t, "core", out.BucketAllocations[0].Archetype)
	assert.Equal(t, "satellite", out.BucketAllocations[1].Archetype)
	assert.Equal(t, "experimental", out.BucketAllocations[2].Archetype)
}

func TestCompute_MissingFieldsReported(t *testing.T) {
	fields := []string{"client_id", "chain", "starting_capital_usd", "risk_tolerance", "horizon_days"}
	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			req := validRequirement()
			delete(req, field)

			out := Compute(req)
			assert.False(t, out.ValidationPassed)
			require.Len(t, out.ValidationErrors, 1)
			assert.Equal(t, field, out.ValidationErrors[0].Field)
		})
	}
}

func TestCompute_PreferencesOptional(t *testing.T) {
	req := validRequirement()
	delete(req, "preferences")

	out := Compute(req)
	assert.True(t, out.ValidationPassed)
	assert.False(t, out.Preferences.AllowLeverage)
	assert.True(t, out.Preferences.AllowLockups)
	assert.Equal(t, 6, out.Preferences.MaxPositions)
}

func TestCompute_WeightsSumToOne(t *testing.T) {
	for _, tolerance := range []string{"conservative", "balanced", "aggressive"} {
		for _, lockups := range []bool{true, false} {
			req := validRequirement()
			req["risk_tolerance"] = tolerance
			req["preferences"] = map[string]interface{}{"allow_lockups": lockups}

			out := Compute(req)
			var sum float64
			for _, b := range out.BucketAllocations {
				sum += b.Weight
			}
			assert.InDelta(t, 1.0, sum, 0.0001, "tolerance=%s lockups=%v", tolerance, lockups)
		}
	}
}

func TestCompute_LockupsOffShrinksExperimental(t *testing.T) {
	for _, tolerance := range []string{"conservative", "balanced", "aggressive"} {
		withLockups := validRequirement()
		withLockups["risk_tolerance"] = tolerance
		withLockups["preferences"] = map[string]interface{}{"allow_lockups": true}

		withoutLockups := validRequirement()
		withoutLockups["risk_tolerance"] = tolerance
		withoutLockups["preferences"] = map[string]interface{}{"allow_lockups": false}

		expWith := Compute(withLockups).BucketAllocations[2].Weight
		expWithout := Compute(withoutLockups).BucketAllocations[2].Weight
		assert.Less(t, expWithout, expWith, "tolerance=%s", tolerance)
	}
}

func TestCompute_SlotViewRespectsMaxPositions(t *testing.T) {
	for _, max := range []int{1, 2, 3, 4, 6, 10} {
		req := validRequirement()
		req["preferences"] = map[string]interface{}{"max_positions": float64(max)}

		out := Compute(req)
		assert.LessOrEqual(t, len(out.PositionAllocationsView), max, "max_positions=%d", max)
	}
}

func TestCompute_CapitalSplitAcrossBuckets(t *testing.T) {
	out := Compute(validRequirement())

	var allocated float64
	for _, b := range out.BucketAllocations {
		allocated += b.AllocatedUSD
	}
	assert.InDelta(t, 50_000, allocated, 1)

	assert.InDelta(t, 30_000, out.BucketAllocations[0].AllocatedUSD, 0.01)
	assert.InDelta(t, 12_500, out.BucketAllocations[1].AllocatedUSD, 0.01)
	assert.InDelta(t, 7_500, out.BucketAllocations[2].AllocatedUSD, 0.01)
}

func TestCompute_RiskScaledByChainAndCapped(t *testing.T) {
	eth := validRequirement()
	eth["chain"] = "ethereum"
	unknown := validRequirement()
	unknown["chain"] = "dogechain"

	ethOut := Compute(eth)
	unkOut := Compute(unknown)
	for i := range ethOut.BucketAllocations {
		assert.Less(t, ethOut.BucketAllocations[i].RiskScore, unkOut.BucketAllocations[i].RiskScore)
		assert.LessOrEqual(t, unkOut.BucketAllocations[i].RiskScore, 95.0)
	}
}

func TestRebalanceCadenceByHorizon(t *testing.T) {
	tests := []struct {
		horizon float64
		cadence int
	}{
		{14, 7},
		{30, 7},
		{31, 14},
		{120, 14},
		{365, 30},
	}
	for _, tt := range tests {
		req := validRequirement()
		req["horizon_days"] = tt.horizon

		out := Compute(req)
		assert.Equal(t, tt.cadence, out.RebalancingPolicy.ReviewCadenceDays, "horizon=%v", tt.horizon)
	}
}

func TestCompute_ScenarioOrdering(t *testing.T) {
	out := Compute(validRequirement())

	s := out.Scenarios
	assert.Less(t, s.BearReturnPct, s.BaseReturnPct)
	assert.Less(t, s.BaseReturnPct, s.BullReturnPct)
	assert.Greater(t, s.BearReturnPct, 0.0)

	// balanced mid APY = 0.6*5 + 0.25*12 + 0.15*25 = 9.75; base case at 90
	// days = 9.75 * 90/365 * 0.8.
	assert.InDelta(t, 9.75*90/365*0.8, s.BaseReturnPct, 0.01)
}

func TestCompute_LeveragePreferenceAddsDisclaimer(t *testing.T) {
	req := validRequirement()
	req["preferences"] = map[string]interface{}{"allow_leverage": true}

	out := Compute(req)
	require.NotEmpty(t, out.Disclaimers)
	assert.Contains(t, out.Disclaimers[len(out.Disclaimers)-1], "Leverage")
}

func TestCompute_BestEffortDefaults(t *testing.T) {
	out := Compute(map[string]interface{}{})

	assert.False(t, out.ValidationPassed)
	assert.Equal(t, "balanced", out.RiskTolerance)
	assert.Equal(t, float64(defaultCapitalUSD), out.StartingCapitalUSD)
	assert.Equal(t, float64(defaultHorizonDays), out.HorizonDays)
	assert.Len(t, out.BucketAllocations, 3)
}
