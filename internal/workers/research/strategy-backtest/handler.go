// Package strategybacktest produces a synthetic backtest report. Returns,
// drawdown and volatility are closed-form functions of the input shape, not
// a replay of historical prices.
package strategybacktest

import (
	"math"
	"strings"
	"time"

	"defi-strategy-agent/internal/common/validation"
	"defi-strategy-agent/internal/models"
)

const (
	defaultElapsedDays = 30
	defaultCapitalUSD  = 10_000
	riskFreeRatePct    = 5
	keywordEdgePct     = 2
	keywordDragPct     = -5
	dragPenalty        = 5
	curveSamples       = 5
)

var reportDisclaimers = []string{
	"No real historical market data was used; all figures are closed-form synthetics.",
	"Liquidations, fees, slippage and funding are not modeled.",
	"Past synthetic performance predicts nothing about live results.",
}

// Compute produces the strategy_backtest_report deliverable.
func Compute(requirement map[string]interface{}) *Output {
	errs := validation.Validate(requirement, requirementSchema)

	strategy := validation.String(requirement, "strategy_name", "unnamed-strategy")
	startRaw := validation.String(requirement, "start_timestamp", "")
	endRaw := validation.String(requirement, "end_timestamp", "")
	capital := validation.Number(requirement, "initial_capital_usd", defaultCapitalUSD)
	if capital <= 0 {
		capital = defaultCapitalUSD
	}
	actions := validation.StringSlice(requirement, "simulated_actions")

	days, start, end := elapsedDays(startRaw, endRaw)
	complexity := validation.Clamp(float64(len(actions))/10, 0.5, 3)
	baseAnnual := baseAnnualReturn(complexity)
	adjustment, drag := keywordAdjustment(strategy)
	netAnnual := baseAnnual + adjustment

	periodPct := netAnnual * days / 365
	endingEquity := capital * (1 + periodPct/100)

	dragExtra := 0.0
	if drag {
		dragExtra = dragPenalty
	}
	drawdown := validation.Clamp(4+6*complexity+dragExtra, 4, 35)
	volatility := validation.Clamp(5+7*complexity+dragExtra, 6, 40)

	return &Output{
		Meta:              models.NewMeta(JobName, errs),
		ClientID:          validation.String(requirement, "client_id", ""),
		Chain:             validation.String(requirement, "chain", "ethereum"),
		StrategyName:      strategy,
		StartTimestamp:    startRaw,
		EndTimestamp:      endRaw,
		InitialCapitalUSD: capital,
		SimulatedActions:  actions,
		TotalReturnPct:    round1(periodPct),
		EndingEquityUSD:   round2(endingEquity),
		MaxDrawdownPct:    round2(drawdown),
		VolatilityPct:     round2(volatility),
		SharpeLikeRatio:   round2((netAnnual - riskFreeRatePct) / volatility),
		EquityCurve:       equityCurve(capital, periodPct, start, end),
		AssumptionsApplied: Assumptions{
			ElapsedDays:          round2(days),
			ComplexityFactor:     round2(complexity),
			BaseAnnualReturnPct:  baseAnnual,
			KeywordAdjustmentPct: adjustment,
			NetAnnualReturnPct:   round2(netAnnual),
		},
		Disclaimers: reportDisclaimers,
	}
}

// elapsedDays parses the timestamp span, falling back to a fixed default
// when either endpoint is unparsable or the span is non-positive.
func elapsedDays(startRaw, endRaw string) (float64, time.Time, time.Time) {
	start, errStart := time.Parse(time.RFC3339, startRaw)
	end, errEnd := time.Parse(time.RFC3339, endRaw)
	if errStart != nil || errEnd != nil || !end.After(start) {
		end = time.Now().UTC()
		start = end.AddDate(0, 0, -defaultElapsedDays)
		return defaultElapsedDays, start, end
	}
	return end.Sub(start).Hours() / 24, start, end
}

func baseAnnualReturn(complexity float64) float64 {
	switch {
	case complexity <= 0.8:
		return 8
	case complexity <= 1.5:
		return 18
	default:
		return 30
	}
}

// keywordAdjustment returns the fixed edge or drag implied by the strategy
// name, and whether the drag penalty applies to drawdown and volatility.
func keywordAdjustment(strategy string) (adjustment float64, drag bool) {
	name := strings.ToLower(strategy)
	switch {
	case strings.Contains(name, "degen") || strings.Contains(name, "leveraged"):
		return keywordDragPct, true
	case strings.Contains(name, "delta") || strings.Contains(name, "neutral"):
		return keywordEdgePct, false
	default:
		return 0, false
	}
}

func equityCurve(capital, periodPct float64, start, end time.Time) []EquityPoint {
	span := end.Sub(start)
	points := make([]EquityPoint, 0, curveSamples)
	for i := 0; i < curveSamples; i++ {
		fraction := float64(i) / float64(curveSamples-1)
		at := start.Add(time.Duration(float64(span) * fraction))
		points = append(points, EquityPoint{
			Fraction:     fraction,
			TimestampUTC: at.UTC().Format(time.RFC3339),
			EquityUSD:    round2(capital * (1 + periodPct*fraction/100)),
		})
	}
	return points
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
