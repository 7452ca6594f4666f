// Package allocationplan builds a core/satellite/experimental capital
// allocation plan. Yields and risk scores are synthetic archetype heuristics
// scaled by chain risk, not market observations.
package allocationplan

import (
	"fmt"
	"math"
	"strings"

	"defi-strategy-agent/internal/catalog"
	"defi-strategy-agent/internal/common/validation"
	"defi-strategy-agent/internal/models"
)

const (
	defaultCapitalUSD   = 10_000
	defaultHorizonDays  = 90
	defaultMaxPositions = 6
	slotsPerBucket      = 2
)

type archetype struct {
	name        string
	apy         APYTriple
	riskBase    float64
	guardrail   string
	instruments []string
}

var archetypes = []archetype{
	{
		name:      "core",
		apy:       APYTriple{LowPct: 3, MidPct: 5, HighPct: 8},
		riskBase:  25,
		guardrail: "Blue-chip lending and staking only; exit if protocol TVL drops more than 30% in a week.",
		instruments: []string{
			"Aave v3 USDC supply",
			"Lido stETH",
			"Compound v3 base market",
		},
	},
	{
		name:      "satellite",
		apy:       APYTriple{LowPct: 8, MidPct: 12, HighPct: 18},
		riskBase:  50,
		guardrail: "Established LP and vault strategies; size each position so a 50% drawdown is survivable.",
		instruments: []string{
			"Curve tricrypto LP",
			"Uniswap v3 concentrated ETH/USDC",
			"Yearn stablecoin vault",
		},
	},
	{
		name:      "experimental",
		apy:       APYTriple{LowPct: 15, MidPct: 25, HighPct: 40},
		riskBase:  75,
		guardrail: "New or incentive-driven farms; assume total loss is possible and never top up a loser.",
		instruments: []string{
			"New incentive farm",
			"Early-stage perp LP",
			"Points/airdrop strategy",
		},
	},
}

// weightTriples maps risk tolerance to core/satellite/experimental weights.
var weightTriples = map[string][3]float64{
	"conservative": {0.75, 0.20, 0.05},
	"balanced":     {0.60, 0.25, 0.15},
	"aggressive":   {0.40, 0.35, 0.25},
}

var planDisclaimers = []string{
	"All yield and risk figures are synthetic heuristics, not market data.",
	"This plan is not financial advice and carries no guarantee of returns.",
}

// Compute produces the portfolio_yield_allocation_plan deliverable.
func Compute(requirement map[string]interface{}) *Output {
	errs := validation.Validate(requirement, requirementSchema)

	tolerance := normalizeTolerance(validation.String(requirement, "risk_tolerance", "balanced"))
	chain := validation.String(requirement, "chain", "ethereum")
	capital := validation.Number(requirement, "starting_capital_usd", defaultCapitalUSD)
	if capital <= 0 {
		capital = defaultCapitalUSD
	}
	horizon := validation.Number(requirement, "horizon_days", defaultHorizonDays)
	if horizon <= 0 {
		horizon = defaultHorizonDays
	}
	prefs := readPreferences(requirement)

	weights := bucketWeights(tolerance, prefs.AllowLockups)
	chainMult := catalog.ChainRiskMultiplier(chain)

	buckets := make([]Bucket, 0, len(archetypes))
	var portfolioAPY, portfolioRisk float64
	for i, arch := range archetypes {
		w := weights[i]
		if w <= 0 {
			continue
		}
		risk := math.Min(95, arch.riskBase*chainMult)
		buckets = append(buckets, Bucket{
			Archetype:          arch.name,
			Weight:             round4(w),
			AllocatedUSD:       round2(capital * w),
			EstimatedAPY:       arch.apy,
			RiskScore:          round2(risk),
			Guardrail:          arch.guardrail,
			ExampleInstruments: arch.instruments,
		})
		portfolioAPY += w * arch.apy.MidPct
		portfolioRisk += w * risk
	}

	out := &Output{
		Meta:                     models.NewMeta(JobName, errs),
		ClientID:                 validation.String(requirement, "client_id", ""),
		Chain:                    chain,
		StartingCapitalUSD:       capital,
		RiskTolerance:            tolerance,
		HorizonDays:              horizon,
		Preferences:              prefs,
		BucketAllocations:        buckets,
		PositionAllocationsView:  slotView(buckets, prefs.MaxPositions),
		PortfolioEstimatedAPYPct: round2(portfolioAPY),
		PortfolioRiskScore:       round2(portfolioRisk),
		RebalancingPolicy:        rebalancePolicy(horizon),
		Scenarios:                scenarios(portfolioAPY, horizon),
		Disclaimers:              planDisclaimers,
	}
	if prefs.AllowLeverage {
		out.Disclaimers = append(out.Disclaimers,
			"Leverage is enabled in preferences; liquidation risk is not modeled here.")
	}
	return out
}

// bucketWeights returns the normalized core/satellite/experimental split.
// Disallowing lockups halves the experimental weight and moves the freed
// weight evenly into core and satellite.
func bucketWeights(tolerance string, allowLockups bool) [3]float64 {
	w := weightTriples[tolerance]
	if !allowLockups {
		freed := w[2] / 2
		w[2] -= freed
		w[0] += freed / 2
		w[1] += freed / 2
	}
	total := w[0] + w[1] + w[2]
	for i := range w {
		w[i] /= total
	}
	return w
}

func readPreferences(requirement map[string]interface{}) Preferences {
	raw := validation.Object(requirement, "preferences")
	prefs := Preferences{
		AllowLeverage: validation.Bool(raw, "allow_leverage", false),
		AllowLockups:  validation.Bool(raw, "allow_lockups", true),
		MaxPositions:  validation.Int(raw, "max_positions", defaultMaxPositions),
	}
	if prefs.MaxPositions < 1 {
		prefs.MaxPositions = 1
	}
	return prefs
}

// slotView splits each bucket into equal discrete slots and truncates the
// flattened list to the position cap.
func slotView(buckets []Bucket, maxPositions int) []Slot {
	perBucket := slotsPerBucket
	if maxPositions < perBucket {
		perBucket = maxPositions
	}
	slots := make([]Slot, 0, len(buckets)*perBucket)
	for _, b := range buckets {
		for i := 0; i < perBucket; i++ {
			slots = append(slots, Slot{
				Archetype:       b.Archetype,
				SlotIndex:       i,
				AllocatedUSD:    round2(b.AllocatedUSD / float64(perBucket)),
				EstimatedAPYPct: b.EstimatedAPY.MidPct,
				RiskScore:       b.RiskScore,
			})
		}
	}
	if len(slots) > maxPositions {
		slots = slots[:maxPositions]
	}
	return slots
}

func rebalancePolicy(horizonDays float64) RebalancePolicy {
	cadence := 30
	switch {
	case horizonDays <= 30:
		cadence = 7
	case horizonDays <= 120:
		cadence = 14
	}
	return RebalancePolicy{
		ReviewCadenceDays: cadence,
		Triggers: []string{
			"Any bucket drifts more than 10 percentage points from target weight",
			"A held protocol suffers an exploit or emergency pause",
			fmt.Sprintf("Realized yield runs below half of plan for %d consecutive days", cadence),
		},
	}
}

// scenarios scales the mid APY to the horizon; returns are not annualized.
func scenarios(portfolioMidAPY, horizonDays float64) ScenarioAnalysis {
	base := portfolioMidAPY * horizonDays / 365
	return ScenarioAnalysis{
		HorizonDays:   horizonDays,
		BearReturnPct: round2(base * 0.2),
		BaseReturnPct: round2(base * 0.8),
		BullReturnPct: round2(base * 1.6),
	}
}

func normalizeTolerance(tolerance string) string {
	switch strings.ToLower(strings.TrimSpace(tolerance)) {
	case "conservative":
		return "conservative"
	case "aggressive":
		return "aggressive"
	default:
		return "balanced"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
