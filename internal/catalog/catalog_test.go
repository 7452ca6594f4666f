package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAsset(t *testing.T) {
	tests := []struct {
		symbol string
		want   AssetClass
	}{
		{"USDC", Stablecoin},
		{"usdt", Stablecoin},
		{"DAI", Stablecoin},
		{"WETH", Bluechip},
		{"WBTC", Bluechip},
		{"SOL", Bluechip},
		{"WETH/USDC", LPToken},
		{"CRV-LP", LPToken},
		{"UNI-V2 WETH-DAI", LPToken},
		{"PEPE", LongTail},
		{"SOMETOKEN", LongTail},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAsset(tt.symbol))
		})
	}
}

func TestChainRiskMultiplier(t *testing.T) {
	assert.Equal(t, 0.90, ChainRiskMultiplier("ethereum"))
	assert.Equal(t, 0.90, ChainRiskMultiplier(" Ethereum "))
	assert.Equal(t, 0.95, ChainRiskMultiplier("arbitrum"))
	assert.Equal(t, 1.05, ChainRiskMultiplier("solana"))
	assert.Equal(t, UnknownChainMultiplier, ChainRiskMultiplier("dogechain"))

	for chain, m := range KnownChains() {
		assert.LessOrEqual(t, m, 1.05, "known chain %s must stay at or below 1.05", chain)
		assert.GreaterOrEqual(t, m, 0.90, "known chain %s must stay at or above 0.90", chain)
	}
}

func TestBaseAPY_OrderedByBand(t *testing.T) {
	for _, class := range []AssetClass{Stablecoin, Bluechip, LPToken, LongTail} {
		band := BaseAPY(class)
		assert.Less(t, band.Low, band.Medium, "class %s", class)
		assert.Less(t, band.Medium, band.High, "class %s", class)
	}
}

func TestPlaybook_DefaultsToBalanced(t *testing.T) {
	assert.Equal(t, "conservative", Playbook("conservative").RiskTolerance)
	assert.Equal(t, "balanced", Playbook("yolo").RiskTolerance)
	assert.Equal(t, "balanced", Playbook("").RiskTolerance)
}
