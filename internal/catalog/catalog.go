// Package catalog holds the static lookup data shared by the deliverable
// computers and exposed read-only over HTTP: chain risk betas, asset
// classification, and the risk playbook. All figures are synthetic.
package catalog

import "strings"

// AssetClass buckets an asset symbol by pattern.
type AssetClass string

const (
	Stablecoin AssetClass = "stablecoin"
	Bluechip   AssetClass = "bluechip"
	LPToken    AssetClass = "lp_token"
	LongTail   AssetClass = "long_tail"
)

// RiskBand labels the three venue variants synthesized per asset.
type RiskBand string

const (
	BandLow    RiskBand = "low"
	BandMedium RiskBand = "medium"
	BandHigh   RiskBand = "high"
)

// Bands in ascending severity order.
var Bands = []RiskBand{BandLow, BandMedium, BandHigh}

// UnknownChainMultiplier applies to any chain not in the registry: unknown
// chains are treated as riskier by default.
const UnknownChainMultiplier = 1.20

var chainMultipliers = map[string]float64{
	"ethereum": 0.90,
	"arbitrum": 0.95,
	"optimism": 0.95,
	"base":     1.00,
	"polygon":  1.00,
	"solana":   1.05,
	"bsc":      1.05,
}

// ChainRiskMultiplier returns the chain risk beta. Known chains sit in
// [0.90, 1.05]; unknown chains get the penalty multiplier.
func ChainRiskMultiplier(chain string) float64 {
	if m, ok := chainMultipliers[strings.ToLower(strings.TrimSpace(chain))]; ok {
		return m
	}
	return UnknownChainMultiplier
}

// KnownChains lists the registered chains, for the lookup API.
func KnownChains() map[string]float64 {
	out := make(map[string]float64, len(chainMultipliers))
	for k, v := range chainMultipliers {
		out[k] = v
	}
	return out
}

var stableMarkers = []string{"USDC", "USDT", "DAI", "FRAX", "LUSD", "GHO", "USD"}
var bluechipMarkers = []string{"ETH", "BTC", "SOL", "BNB", "AVAX", "MATIC"}
var lpMarkers = []string{"LP", "UNI-V2", "SLP", "/"}

// ClassifyAsset buckets a symbol by pattern. LP markers win over the token
// markers they wrap (a WETH/USDC LP is an LP token, not a bluechip).
func ClassifyAsset(symbol string) AssetClass {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, m := range lpMarkers {
		if strings.Contains(s, m) {
			return LPToken
		}
	}
	for _, m := range stableMarkers {
		if strings.Contains(s, m) {
			return Stablecoin
		}
	}
	for _, m := range bluechipMarkers {
		if strings.Contains(s, m) {
			return Bluechip
		}
	}
	return LongTail
}

// APYBand is the synthetic base APY triple for one asset class, indexed by
// risk band.
type APYBand struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// ForBand picks the band's base APY.
func (b APYBand) ForBand(band RiskBand) float64 {
	switch band {
	case BandLow:
		return b.Low
	case BandMedium:
		return b.Medium
	default:
		return b.High
	}
}

var baseAPY = map[AssetClass]APYBand{
	Stablecoin: {Low: 3.2, Medium: 6.5, High: 11.0},
	Bluechip:   {Low: 2.1, Medium: 4.8, High: 9.5},
	LPToken:    {Low: 8.0, Medium: 15.0, High: 28.0},
	LongTail:   {Low: 6.0, Medium: 14.0, High: 34.0},
}

// BaseAPY returns the synthetic APY band for an asset class.
func BaseAPY(class AssetClass) APYBand {
	return baseAPY[class]
}

// AssetProfile is the lookup API view of one symbol.
type AssetProfile struct {
	Symbol     string     `json:"symbol"`
	AssetClass AssetClass `json:"asset_class"`
	BaseAPYPct APYBand    `json:"base_apy_pct"`
}

// ProfileFor classifies a symbol and attaches its APY band.
func ProfileFor(symbol string) AssetProfile {
	class := ClassifyAsset(symbol)
	return AssetProfile{
		Symbol:     symbol,
		AssetClass: class,
		BaseAPYPct: baseAPY[class],
	}
}

// PlaybookEntry is the qualitative guidance served per risk tolerance.
type PlaybookEntry struct {
	RiskTolerance string   `json:"risk_tolerance"`
	Summary       string   `json:"summary"`
	Guidelines    []string `json:"guidelines"`
}

var playbook = map[string]PlaybookEntry{
	"conservative": {
		RiskTolerance: "conservative",
		Summary:       "Capital preservation first; stablecoin and bluechip lending on established chains.",
		Guidelines: []string{
			"Prefer venues with deep TVL and long audit history",
			"Avoid leverage and lockups longer than 7 days",
			"Cap any single venue at 25% of capital",
		},
	},
	"balanced": {
		RiskTolerance: "balanced",
		Summary:       "Blend of stable yield and measured LP exposure with periodic rebalancing.",
		Guidelines: []string{
			"Split capital across at least three venues",
			"Keep experimental positions under 15% of capital",
			"Review allocations every two weeks",
		},
	},
	"aggressive": {
		RiskTolerance: "aggressive",
		Summary:       "Yield maximization with accepted drawdown risk; newer venues in scope.",
		Guidelines: []string{
			"Size positions so a total loss of any one venue is survivable",
			"Harvest and compound rewards frequently",
			"Watch depeg and IL exposure daily",
		},
	},
}

// Playbook returns the guidance entry for a tolerance, defaulting to
// balanced for unrecognized values.
func Playbook(tolerance string) PlaybookEntry {
	if e, ok := playbook[strings.ToLower(strings.TrimSpace(tolerance))]; ok {
		return e
	}
	return playbook["balanced"]
}
