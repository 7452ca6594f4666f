package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defi-strategy-agent/internal/common/logger"
	"defi-strategy-agent/internal/protocol"
	yieldscan "defi-strategy-agent/internal/workers/yield/scan-ranking"
)

type respondCall struct {
	jobID  int64
	accept bool
	reason string
}

type mockTransport struct {
	responds    []respondCall
	deliveries  []interface{}
	respondErr  error
	deliverErrs []error
}

func (m *mockTransport) Respond(_ context.Context, jobID int64, accept bool, reason string) error {
	m.responds = append(m.responds, respondCall{jobID: jobID, accept: accept, reason: reason})
	return m.respondErr
}

func (m *mockTransport) Deliver(_ context.Context, _ int64, payload interface{}) error {
	m.deliveries = append(m.deliveries, payload)
	if len(m.deliverErrs) > 0 {
		err := m.deliverErrs[0]
		m.deliverErrs = m.deliverErrs[1:]
		return err
	}
	return nil
}

func newTestEngine(transport *mockTransport) (*Engine, *MemoryStore) {
	store := NewMemoryStore()
	engine := NewEngine(store, transport, nil, nil, nil, logger.NewNoOpLogger())
	return engine, store
}

func scanOfferEvent() protocol.PhaseEvent {
	return protocol.PhaseEvent{
		Status:    protocol.StatusPending,
		NextPhase: protocol.PhaseNegotiation,
		StructuredContent: map[string]interface{}{
			"name": "yield_scan_and_ranking",
			"requirement": map[string]interface{}{
				"client_id":      "client-1",
				"chain":          "ethereum",
				"assets":         []interface{}{"USDC"},
				"risk_tolerance": "balanced",
				"min_tvl_usd":    float64(0),
				"lookback_hours": float64(24),
			},
		},
	}
}

func TestEngine_NegotiationCachesAndAccepts(t *testing.T) {
	transport := &mockTransport{}
	engine, store := newTestEngine(transport)

	engine.HandlePhaseEvent(context.Background(), protocol.Job{ID: 1}, scanOfferEvent())

	require.Len(t, transport.responds, 1)
	assert.True(t, transport.responds[0].accept)

	meta, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "yield_scan_and_ranking", meta.Kind)
}

func TestEngine_NegotiationWithoutMetadataStillAccepts(t *testing.T) {
	transport := &mockTransport{}
	engine, store := newTestEngine(transport)

	engine.HandlePhaseEvent(context.Background(), protocol.Job{ID: 3}, protocol.PhaseEvent{
		Status:    protocol.StatusPending,
		NextPhase: protocol.PhaseNegotiation,
	})

	require.Len(t, transport.responds, 1)
	assert.True(t, transport.responds[0].accept)

	meta, err := store.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestEngine_NegotiationFailureRejectsWithReason(t *testing.T) {
	transport := &mockTransport{respondErr: errors.New("gateway unreachable")}
	engine, _ := newTestEngine(transport)

	engine.HandlePhaseEvent(context.Background(), protocol.Job{ID: 1}, scanOfferEvent())

	// First call is the failed acceptance, second the rejection.
	require.Len(t, transport.responds, 2)
	assert.True(t, transport.responds[0].accept)
	assert.False(t, transport.responds[1].accept)
	assert.Contains(t, transport.responds[1].reason, "gateway unreachable")
}

func TestEngine_DeliveryFromCachedMetadata(t *testing.T) {
	transport := &mockTransport{}
	engine, store := newTestEngine(transport)
	ctx := context.Background()

	engine.HandlePhaseEvent(ctx, protocol.Job{ID: 1}, scanOfferEvent())
	engine.HandlePhaseEvent(ctx, protocol.Job{ID: 1}, protocol.PhaseEvent{
		Status:    protocol.StatusPending,
		NextPhase: protocol.PhaseEvaluation,
	})

	require.Len(t, transport.deliveries, 1)
	out, ok := transport.deliveries[0].(*yieldscan.Output)
	require.True(t, ok)
	assert.Equal(t, "yield_scan_and_ranking", out.JobName)
	assert.True(t, out.ValidationPassed)

	// Cache cleared after successful delivery.
	meta, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestEngine_DeliveryFallsBackToEventContent(t *testing.T) {
	transport := &mockTransport{}
	engine, _ := newTestEngine(transport)

	event := scanOfferEvent()
	event.NextPhase = protocol.PhaseEvaluation
	engine.HandlePhaseEvent(context.Background(), protocol.Job{ID: 5}, event)

	require.Len(t, transport.deliveries, 1)
	out, ok := transport.deliveries[0].(*yieldscan.Output)
	require.True(t, ok)
	assert.Equal(t, "yield_scan_and_ranking", out.JobName)
}

func TestEngine_DeliveryParsesSerializedContent(t *testing.T) {
	transport := &mockTransport{}
	engine, _ := newTestEngine(transport)

	engine.HandlePhaseEvent(context.Background(), protocol.Job{ID: 6}, protocol.PhaseEvent{
		NextPhase: protocol.PhaseEvaluation,
		Content:   `{"name":"strategy_backtest_report","requirement":{}}`,
	})

	require.Len(t, transport.deliveries, 1)
}

func TestEngine_UnresolvedMetadataDeliversUnknown(t *testing.T) {
	transport := &mockTransport{}
	engine, _ := newTestEngine(transport)

	engine.HandlePhaseEvent(context.Background(), protocol.Job{ID: 7}, protocol.PhaseEvent{
		NextPhase: protocol.PhaseEvaluation,
		Content:   "not json at all",
	})

	require.Len(t, transport.deliveries, 1)
	out, ok := transport.deliveries[0].(*UnknownDeliverable)
	require.True(t, ok)
	assert.Equal(t, "unknown", out.JobName)
	assert.False(t, out.ValidationPassed)
}

func TestEngine_DeliveryFailureSubmitsOneFallback(t *testing.T) {
	transport := &mockTransport{deliverErrs: []error{errors.New("submission rejected")}}
	engine, store := newTestEngine(transport)
	ctx := context.Background()

	engine.HandlePhaseEvent(ctx, protocol.Job{ID: 1}, scanOfferEvent())
	engine.HandlePhaseEvent(ctx, protocol.Job{ID: 1}, protocol.PhaseEvent{NextPhase: protocol.PhaseEvaluation})

	// Original attempt plus exactly one fallback.
	require.Len(t, transport.deliveries, 2)

	// Metadata stays cached when delivery fails.
	meta, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, meta)
}

func TestEngine_FallbackFailureOnlyLogs(t *testing.T) {
	transport := &mockTransport{deliverErrs: []error{
		errors.New("submission rejected"),
		errors.New("fallback rejected"),
	}}
	engine, _ := newTestEngine(transport)
	ctx := context.Background()

	engine.HandlePhaseEvent(ctx, protocol.Job{ID: 1}, scanOfferEvent())
	engine.HandlePhaseEvent(ctx, protocol.Job{ID: 1}, protocol.PhaseEvent{NextPhase: protocol.PhaseEvaluation})

	// No third attempt after the fallback fails.
	assert.Len(t, transport.deliveries, 2)
}

func TestEngine_IgnoresOtherPhases(t *testing.T) {
	transport := &mockTransport{}
	engine, _ := newTestEngine(transport)
	ctx := context.Background()

	for _, phase := range []int{protocol.PhaseRequest, protocol.PhaseTransaction, 4, 99} {
		engine.HandlePhaseEvent(ctx, protocol.Job{ID: 1}, protocol.PhaseEvent{NextPhase: phase})
	}

	assert.Empty(t, transport.responds)
	assert.Empty(t, transport.deliveries)
}

func TestEngine_LaterNegotiationOverwritesMetadata(t *testing.T) {
	transport := &mockTransport{}
	engine, store := newTestEngine(transport)
	ctx := context.Background()

	engine.HandlePhaseEvent(ctx, protocol.Job{ID: 1}, scanOfferEvent())

	second := scanOfferEvent()
	second.StructuredContent["name"] = "strategy_backtest_report"
	engine.HandlePhaseEvent(ctx, protocol.Job{ID: 1}, second)

	meta, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "strategy_backtest_report", meta.Kind)
}
