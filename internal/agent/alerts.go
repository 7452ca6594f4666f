package agent

import (
	"context"
	"fmt"

	positionhealth "defi-strategy-agent/internal/workers/risk/position-health"
)

// Publisher pushes a breach alert to one channel (SNS topic or SES email).
type Publisher interface {
	Publish(ctx context.Context, subject, message string) error
}

// Notifier fans position health breach alerts out to the channel the
// requirement asked for. Missing channels are skipped, not errors.
type Notifier struct {
	sns   Publisher
	email Publisher
}

func NewNotifier(sns, email Publisher) *Notifier {
	return &Notifier{sns: sns, email: email}
}

// NotifyBreaches sends one alert per monitor run when at least one position
// breached its threshold. The channel comes from the deliverable itself.
func (n *Notifier) NotifyBreaches(ctx context.Context, out *positionhealth.Output) error {
	if n == nil || out == nil || out.Summary.BreachedPositions == 0 {
		return nil
	}

	var target Publisher
	switch out.NotifyChannel {
	case "sns":
		target = n.sns
	case "email":
		target = n.email
	default:
		return nil
	}
	if target == nil {
		return fmt.Errorf("notify channel %q requested but not configured", out.NotifyChannel)
	}

	subject := fmt.Sprintf("Position health alert for %s", out.ClientID)
	return target.Publish(ctx, subject, breachMessage(out))
}

func breachMessage(out *positionhealth.Output) string {
	msg := fmt.Sprintf("%s\nChain: %s\n", out.Summary.Commentary, out.Chain)
	for _, a := range out.Assessments {
		if !a.Breached {
			continue
		}
		msg += fmt.Sprintf("- %s %s (%s): score %.0f vs threshold %.0f, severity %s\n",
			a.Protocol, a.PositionID, a.PoolAddress, a.HealthScore, a.HealthThreshold, a.Severity)
	}
	return msg
}
