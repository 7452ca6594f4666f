// Package bundlebuilder turns desired allocations into a placeholder
// transaction bundle with a batching plan. Nothing produced here is
// executable calldata.
package bundlebuilder

import (
	"crypto/sha256"
	"fmt"
	"math"
	"strings"

	"defi-strategy-agent/internal/common/validation"
	"defi-strategy-agent/internal/models"
)

const (
	defaultSlippageBps     = 50
	defaultDeadlineSeconds = 900
	perTransactionCostUSD  = 1.75
)

const (
	ActionSwap           = "swap"
	ActionAddLiquidity   = "add_liquidity"
	ActionVaultDeposit   = "vault_deposit"
	ActionSupplyOrBorrow = "supply_or_borrow"
)

var gasLimitHints = map[string]int{
	ActionSwap:           210_000,
	ActionAddLiquidity:   360_000,
	ActionVaultDeposit:   240_000,
	ActionSupplyOrBorrow: 320_000,
}

var staticCaveats = []string{
	"Transaction descriptors are placeholders; build and simulate real calldata before signing.",
	"Slippage and deadline settings are applied uniformly and may be wrong for thin pools.",
	"Gas limit hints are rough per-action estimates, not simulation results.",
	"Venue batching assumes the venue supports multicall; verify before relying on it.",
}

// Compute produces the execution_bundle_builder deliverable.
func Compute(requirement map[string]interface{}) *Output {
	errs := validation.Validate(requirement, requirementSchema)

	slippage := validation.Number(requirement, "slippage_bps", defaultSlippageBps)
	if slippage <= 0 {
		slippage = defaultSlippageBps
	}
	deadline := validation.Number(requirement, "deadline_seconds", defaultDeadlineSeconds)
	if deadline <= 0 {
		deadline = defaultDeadlineSeconds
	}
	preferBatching := validation.Bool(requirement, "prefer_batching", true)

	allocations := readAllocations(requirement)
	txs := make([]Transaction, 0, len(allocations))
	for i, alloc := range allocations {
		action := inferAction(alloc.Venue, alloc.AssetOut)
		size, impact := sizeBucket(alloc.AmountIn)
		txs = append(txs, Transaction{
			Index:           i,
			ActionType:      action,
			AssetIn:         alloc.AssetIn,
			AssetOut:        alloc.AssetOut,
			AmountIn:        alloc.AmountIn,
			Venue:           alloc.Venue,
			SizeBucket:      size,
			PriceImpactHint: impact,
			TargetAddress:   placeholderAddress(alloc.Venue),
			Payload:         fmt.Sprintf("%s:%s->%s@%s", action, alloc.AssetIn, alloc.AssetOut, alloc.Venue),
			GasLimitHint:    gasLimitHints[action],
			SlippageBps:     slippage,
			DeadlineSeconds: deadline,
		})
	}

	return &Output{
		Meta:             models.NewMeta(JobName, errs),
		ClientID:         validation.String(requirement, "client_id", ""),
		Chain:            validation.String(requirement, "chain", "ethereum"),
		SlippageBps:      slippage,
		DeadlineSeconds:  deadline,
		PreferBatching:   preferBatching,
		Transactions:     txs,
		Batching:         batchingPlan(txs, preferBatching),
		EstimatedCostUSD: round2(perTransactionCostUSD * float64(len(txs))),
		Caveats:          staticCaveats,
	}
}

func readAllocations(requirement map[string]interface{}) []Allocation {
	raw := validation.ObjectSlice(requirement, "desired_allocations")
	allocations := make([]Allocation, 0, len(raw))
	for _, item := range raw {
		allocations = append(allocations, Allocation{
			AssetIn:  validation.String(item, "asset_in", ""),
			AssetOut: validation.String(item, "asset_out", ""),
			AmountIn: validation.Number(item, "amount_in", 0),
			Venue:    validation.String(item, "venue", ""),
		})
	}
	return allocations
}

// inferAction classifies an allocation by keyword, checking lending markers
// first, then LP markers, then vault markers, defaulting to swap.
func inferAction(venue, assetOut string) string {
	text := strings.ToLower(venue + " " + assetOut)
	switch {
	case containsAny(text, "aave", "compound", "morpho", "lend", "borrow"):
		return ActionSupplyOrBorrow
	case containsAny(text, "lp", "pool", "pair", "univ", "curve"):
		return ActionAddLiquidity
	case containsAny(text, "vault", "farm", "yearn", "beefy"):
		return ActionVaultDeposit
	default:
		return ActionSwap
	}
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func sizeBucket(amount float64) (bucket, impactHint string) {
	switch {
	case amount < 1_000:
		return "small", "negligible expected price impact"
	case amount < 100_000:
		return "medium", "moderate impact; consider splitting across blocks"
	default:
		return "large", "significant impact likely; use TWAP or private order flow"
	}
}

func batchingPlan(txs []Transaction, preferBatching bool) BatchingPlan {
	if !preferBatching {
		return BatchingPlan{Strategy: "sequential"}
	}
	groups := map[string][]int{}
	for _, tx := range txs {
		groups[tx.Venue] = append(groups[tx.Venue], tx.Index)
	}
	return BatchingPlan{Strategy: "batched_by_venue", GroupsByVenue: groups}
}

// placeholderAddress derives a stable fake address from the venue name so
// repeated runs produce identical bundles.
func placeholderAddress(venue string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(venue)))
	return fmt.Sprintf("0x%x", sum[:20])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
