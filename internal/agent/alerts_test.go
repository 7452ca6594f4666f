package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	positionhealth "defi-strategy-agent/internal/workers/risk/position-health"
)

type mockPublisher struct {
	subjects []string
	messages []string
}

func (m *mockPublisher) Publish(_ context.Context, subject, message string) error {
	m.subjects = append(m.subjects, subject)
	m.messages = append(m.messages, message)
	return nil
}

func breachedOutput(channel string) *positionhealth.Output {
	return positionhealth.Compute(map[string]interface{}{
		"client_id": "client-1",
		"chain":     "ethereum",
		"positions": []interface{}{
			map[string]interface{}{
				"protocol": "aave-v3", "pool_address": "0xabc", "position_id": "pos-1",
				"health_threshold": float64(80),
			},
		},
		"notify_channel":          channel,
		"check_frequency_minutes": float64(30),
	})
}

func TestNotifier_SNSChannel(t *testing.T) {
	sns := &mockPublisher{}
	notifier := NewNotifier(sns, nil)

	require.NoError(t, notifier.NotifyBreaches(context.Background(), breachedOutput("sns")))
	require.Len(t, sns.messages, 1)
	assert.Contains(t, sns.subjects[0], "client-1")
	assert.Contains(t, sns.messages[0], "pos-1")
	assert.Contains(t, sns.messages[0], "critical")
}

func TestNotifier_EmailChannel(t *testing.T) {
	email := &mockPublisher{}
	notifier := NewNotifier(nil, email)

	require.NoError(t, notifier.NotifyBreaches(context.Background(), breachedOutput("email")))
	assert.Len(t, email.messages, 1)
}

func TestNotifier_UnknownChannelSkipped(t *testing.T) {
	sns := &mockPublisher{}
	notifier := NewNotifier(sns, nil)

	require.NoError(t, notifier.NotifyBreaches(context.Background(), breachedOutput("none")))
	assert.Empty(t, sns.messages)
}

func TestNotifier_RequestedChannelNotConfigured(t *testing.T) {
	notifier := NewNotifier(nil, nil)

	err := notifier.NotifyBreaches(context.Background(), breachedOutput("sns"))
	assert.Error(t, err)
}

func TestNotifier_NoBreachesNoAlert(t *testing.T) {
	sns := &mockPublisher{}
	notifier := NewNotifier(sns, nil)

	healthy := positionhealth.Compute(map[string]interface{}{
		"client_id": "client-1",
		"chain":     "ethereum",
		"positions": []interface{}{
			map[string]interface{}{
				"protocol": "aave-v3", "pool_address": "0xabc", "position_id": "pos-1",
				"health_threshold": float64(40),
			},
		},
		"notify_channel":          "sns",
		"check_frequency_minutes": float64(30),
	})

	require.NoError(t, notifier.NotifyBreaches(context.Background(), healthy))
	assert.Empty(t, sns.messages)
}

func TestNotifier_NilReceiverAndOutput(t *testing.T) {
	var notifier *Notifier
	assert.NoError(t, notifier.NotifyBreaches(context.Background(), breachedOutput("sns")))
	assert.NoError(t, NewNotifier(nil, nil).NotifyBreaches(context.Background(), nil))
}
