// Package yieldscan synthesizes and ranks yield venues per asset. Three venue
// variants (one per risk band) are produced for every asset and ranked by a
// tolerance-specific utility score. All APY and risk figures are synthetic
// heuristics, not market data.
package yieldscan

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"defi-strategy-agent/internal/catalog"
	"defi-strategy-agent/internal/common/validation"
	"defi-strategy-agent/internal/models"
)

const (
	defaultLookbackHours = 72
	defaultTolerance     = "balanced"
)

var bandSeverity = map[catalog.RiskBand]float64{
	catalog.BandLow:    22,
	catalog.BandMedium: 45,
	catalog.BandHigh:   68,
}

var factorBase = map[catalog.RiskBand]float64{
	catalog.BandLow:    15,
	catalog.BandMedium: 35,
	catalog.BandHigh:   60,
}

// apyBias shifts estimated APY by tolerance: conservative venues quote the
// cautious end of the band, aggressive ones chase the optimistic end.
var apyBias = map[string]float64{
	"conservative": -1.0,
	"balanced":     0,
	"aggressive":   1.5,
}

var riskBias = map[string]float64{
	"conservative": 0.9,
	"balanced":     1.0,
	"aggressive":   1.1,
}

var fitTable = map[string]map[catalog.RiskBand]string{
	"conservative": {
		catalog.BandLow:    "Fits a conservative mandate: established venue, modest but dependable yield.",
		catalog.BandMedium: "Acceptable satellite position for a conservative book; keep sizing small.",
		catalog.BandHigh:   "Outside a conservative mandate; listed only for completeness.",
	},
	"balanced": {
		catalog.BandLow:    "Solid anchor position with yield trade-off for stability.",
		catalog.BandMedium: "Core fit for a balanced book: reasonable yield per unit of risk.",
		catalog.BandHigh:   "Opportunistic slice only; cap exposure and review weekly.",
	},
	"aggressive": {
		catalog.BandLow:    "Underweight candidate: yield likely below an aggressive target.",
		catalog.BandMedium: "Reasonable base while rotating into higher-yield venues.",
		catalog.BandHigh:   "Primary fit for an aggressive mandate; expect drawdowns.",
	},
}

// Compute produces the yield_scan_and_ranking deliverable. Validation
// failures are reported in the envelope but never block computation.
func Compute(requirement map[string]interface{}) *Output {
	errs := validation.Validate(requirement, requirementSchema)

	tolerance := normalizeTolerance(validation.String(requirement, "risk_tolerance", defaultTolerance))
	chain := validation.String(requirement, "chain", "ethereum")
	minTVL := validation.Number(requirement, "min_tvl_usd", 0)
	if minTVL < 0 {
		minTVL = 0
	}
	lookback := validation.Number(requirement, "lookback_hours", defaultLookbackHours)
	if lookback <= 0 {
		lookback = defaultLookbackHours
	}
	assets := validation.StringSlice(requirement, "assets")

	chainMult := catalog.ChainRiskMultiplier(chain)

	venues := make([]Venue, 0, len(assets)*len(catalog.Bands))
	classes := map[catalog.AssetClass]bool{}
	for _, symbol := range assets {
		class := catalog.ClassifyAsset(symbol)
		classes[class] = true
		for _, band := range catalog.Bands {
			venues = append(venues, synthesizeVenue(symbol, class, band, tolerance, chainMult, minTVL))
		}
	}

	// Stable sort keeps insertion order on utility ties.
	sort.SliceStable(venues, func(i, j int) bool {
		return venues[i].UtilityScore > venues[j].UtilityScore
	})

	out := &Output{
		Meta:                models.NewMeta(JobName, errs),
		ClientID:            validation.String(requirement, "client_id", ""),
		Chain:               chain,
		RiskTolerance:       tolerance,
		MinTVLUSD:           minTVL,
		LookbackHours:       lookback,
		RankedVenues:        venues,
		DiversificationHint: diversificationHint(len(assets), len(classes)),
	}

	if len(venues) > 0 {
		out.BestLowRisk = pickBestLowRisk(venues)
		out.BestAPY = pickBestAPY(venues)
	}
	return out
}

func synthesizeVenue(symbol string, class catalog.AssetClass, band catalog.RiskBand, tolerance string, chainMult, minTVL float64) Venue {
	apy := catalog.BaseAPY(class).ForBand(band) + apyBias[tolerance]
	if apy < 0.1 {
		apy = 0.1
	}

	tvl := syntheticTVL(band, minTVL)
	risk := validation.Clamp(bandSeverity[band]*tvlFactor(tvl, minTVL)*chainMult*riskBias[tolerance], 5, 95)

	return Venue{
		Asset:           symbol,
		AssetClass:      string(class),
		Venue:           fmt.Sprintf("%s %s-yield venue", symbol, band),
		RiskBand:        string(band),
		EstimatedAPYPct: round2(apy),
		TVLUSD:          tvl,
		RiskScore:       round2(risk),
		UtilityScore:    round2(utility(apy, risk, tolerance)),
		RiskFactors:     riskFactors(class, band),
		FitExplanation:  fitTable[tolerance][band],
	}
}

// syntheticTVL invents a pool size per band: lower-risk venues are deeper.
func syntheticTVL(band catalog.RiskBand, minTVL float64) float64 {
	switch band {
	case catalog.BandLow:
		return minTVL*4 + 40_000_000
	case catalog.BandMedium:
		return minTVL*2 + 12_000_000
	default:
		return minTVL + 2_500_000
	}
}

// tvlFactor lowers risk for venues holding a large multiple of the caller's
// TVL floor. Without a floor there is nothing to scale against.
func tvlFactor(tvl, minTVL float64) float64 {
	if minTVL <= 0 {
		return 1.0
	}
	switch ratio := tvl / minTVL; {
	case ratio >= 10:
		return 0.85
	case ratio >= 3:
		return 0.95
	default:
		return 1.1
	}
}

func utility(apy, risk float64, tolerance string) float64 {
	switch tolerance {
	case "conservative":
		return apy - 0.2*risk
	case "aggressive":
		return 1.3*apy - 0.1*risk
	default:
		return apy - 0.15*risk
	}
}

func riskFactors(class catalog.AssetClass, band catalog.RiskBand) RiskFactors {
	base := factorBase[band]
	f := RiskFactors{
		SmartContract:   base,
		Liquidity:       base,
		Depeg:           5,
		ImpermanentLoss: 5,
	}
	switch class {
	case catalog.Stablecoin:
		f.Depeg = math.Min(90, base+8)
	case catalog.LPToken:
		f.ImpermanentLoss = math.Min(90, base+15)
	case catalog.LongTail:
		f.Liquidity = math.Min(90, base+10)
	}
	return f
}

func pickBestLowRisk(venues []Venue) *Venue {
	best := 0
	for i := range venues {
		if venues[i].RiskScore < venues[best].RiskScore {
			best = i
		}
	}
	v := venues[best]
	return &v
}

func pickBestAPY(venues []Venue) *Venue {
	best := 0
	for i := range venues {
		if venues[i].EstimatedAPYPct > venues[best].EstimatedAPYPct {
			best = i
		}
	}
	v := venues[best]
	return &v
}

func diversificationHint(assetCount, classCount int) string {
	switch {
	case assetCount == 0:
		return "No assets supplied; nothing to diversify."
	case classCount <= 1:
		return "All candidates sit in one asset class; adding a second class would reduce correlated drawdown risk."
	default:
		return fmt.Sprintf("Candidates span %d asset classes; blending bands across classes keeps correlation manageable.", classCount)
	}
}

func normalizeTolerance(tolerance string) string {
	switch strings.ToLower(strings.TrimSpace(tolerance)) {
	case "conservative":
		return "conservative"
	case "aggressive":
		return "aggressive"
	default:
		return defaultTolerance
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
