// Package agent implements the negotiation state machine, job router and
// job context store that drive the provider side of the commerce protocol.
package agent

import (
	"context"
	"fmt"
	"time"

	"defi-strategy-agent/internal/common/errors"
	"defi-strategy-agent/internal/common/logger"
	"defi-strategy-agent/internal/common/metrics"
	"defi-strategy-agent/internal/common/observability"
	"defi-strategy-agent/internal/common/validation"
	"defi-strategy-agent/internal/models"
	"defi-strategy-agent/internal/protocol"
	positionhealth "defi-strategy-agent/internal/workers/risk/position-health"
)

// Engine handles phase events for one agent process. Events for a given job
// id arrive serialized from the gateway, so no per-job locking is needed.
type Engine struct {
	store     JobStore
	transport protocol.Transport
	history   HistoryRecorder
	notifier  *Notifier
	obs       *observability.Observability
	log       logger.Logger
}

func NewEngine(store JobStore, transport protocol.Transport, history HistoryRecorder, notifier *Notifier, obs *observability.Observability, log logger.Logger) *Engine {
	if history == nil {
		history = NoOpHistory{}
	}
	return &Engine{
		store:     store,
		transport: transport,
		history:   history,
		notifier:  notifier,
		obs:       obs,
		log:       log,
	}
}

// HandlePhaseEvent drives the state machine for one inbound event. Only the
// transitions into negotiation and into evaluation act; everything else is
// logged and ignored.
func (e *Engine) HandlePhaseEvent(ctx context.Context, job protocol.Job, event protocol.PhaseEvent) {
	ctx, span := e.obs.StartSpan(ctx, "agent.handle_phase_event")
	defer span.End()
	start := time.Now()

	switch event.NextPhase {
	case protocol.PhaseNegotiation:
		e.handleNegotiation(ctx, job, event)
	case protocol.PhaseEvaluation:
		e.handleDelivery(ctx, job, event)
	default:
		e.log.Debug("ignoring phase event", map[string]interface{}{
			"job_id":     job.ID,
			"next_phase": event.NextPhase,
			"status":     event.Status,
		})
	}

	e.obs.RecordJobDuration(ctx, kindFromEvent(event), time.Since(start))
}

// handleNegotiation caches the offered job metadata and signals acceptance.
// Any failure on the way converts into an explicit rejection, never a crash.
func (e *Engine) handleNegotiation(ctx context.Context, job protocol.Job, event protocol.PhaseEvent) {
	meta := models.DecodeJobMetadata(event.StructuredContent)

	if err := e.acceptJob(ctx, job.ID, meta); err != nil {
		negErr := errors.NewNegotiationFailedError(err)
		e.log.WithError(negErr).Warn("negotiation failed, rejecting job", map[string]interface{}{
			"job_id": job.ID,
		})
		metrics.JobsRejected.Inc()
		e.obs.RecordJobProcessed(ctx, kindOf(meta), "rejected")
		if respondErr := e.transport.Respond(ctx, job.ID, false, negErr.Details); respondErr != nil {
			e.log.WithError(respondErr).Error("failed to send rejection", map[string]interface{}{
				"job_id": job.ID,
			})
		}
		return
	}

	metrics.JobsAccepted.Inc()
	e.obs.RecordJobProcessed(ctx, kindOf(meta), "accepted")
	e.updateStoreGauge(ctx)
	e.log.Info("job accepted", map[string]interface{}{
		"job_id":   job.ID,
		"job_kind": kindOf(meta),
	})
}

func (e *Engine) acceptJob(ctx context.Context, jobID int64, meta *models.JobMetadata) error {
	if meta != nil {
		if err := e.store.Put(ctx, jobID, meta); err != nil {
			return fmt.Errorf("cache job metadata: %w", err)
		}
	}
	if err := e.transport.Respond(ctx, jobID, true, ""); err != nil {
		return fmt.Errorf("signal acceptance: %w", err)
	}
	return nil
}

// handleDelivery resolves metadata, computes the deliverable and submits it.
// Resolution order: context store, then the event's structured content, then
// a best-effort parse of the serialized content string.
func (e *Engine) handleDelivery(ctx context.Context, job protocol.Job, event protocol.PhaseEvent) {
	meta := e.resolveMetadata(ctx, job.ID, event)
	jobKind := kindOf(meta)

	computeStart := time.Now()
	deliverable := Dispatch(meta)
	metrics.ComputeDuration.WithLabelValues(jobKind).Observe(time.Since(computeStart).Seconds())

	if err := e.transport.Deliver(ctx, job.ID, deliverable); err != nil {
		e.log.WithError(errors.NewDeliveryFailedError(err)).Error("delivery failed, submitting fallback", map[string]interface{}{
			"job_id":   job.ID,
			"job_kind": jobKind,
		})
		metrics.DeliveryFailures.WithLabelValues(jobKind).Inc()
		e.obs.RecordJobProcessed(ctx, jobKind, "delivery_failed")
		e.recordHistory(ctx, job.ID, jobKind, false, deliverable)
		e.deliverFallback(ctx, job.ID, jobKind, err)
		return
	}

	if err := e.store.Remove(ctx, job.ID); err != nil {
		e.log.WithError(err).Warn("failed to clear job context", map[string]interface{}{
			"job_id": job.ID,
		})
	}
	e.updateStoreGauge(ctx)

	metrics.JobsDelivered.WithLabelValues(jobKind).Inc()
	e.obs.RecordJobProcessed(ctx, jobKind, "delivered")
	e.recordHistory(ctx, job.ID, jobKind, true, deliverable)
	e.sendAlerts(ctx, deliverable)
	e.log.Info("deliverable submitted", map[string]interface{}{
		"job_id":   job.ID,
		"job_kind": jobKind,
	})
}

func (e *Engine) resolveMetadata(ctx context.Context, jobID int64, event protocol.PhaseEvent) *models.JobMetadata {
	meta, err := e.store.Get(ctx, jobID)
	if err != nil {
		e.log.WithError(errors.NewStoreUnavailableError(err)).Warn("context store lookup failed", map[string]interface{}{
			"job_id": jobID,
		})
	}
	if meta != nil {
		return meta
	}
	if meta = models.DecodeJobMetadata(event.StructuredContent); meta != nil {
		return meta
	}
	return models.ParseJobMetadata(event.Content)
}

// deliverFallback makes exactly one attempt to submit a minimal error
// deliverable. A second failure is logged and dropped.
func (e *Engine) deliverFallback(ctx context.Context, jobID int64, jobKind string, cause error) {
	fallback := struct {
		models.Meta
		Error string `json:"error"`
	}{
		Meta: models.NewMeta(jobKind, []validation.Error{
			{Message: cause.Error(), Field: "delivery"},
		}),
		Error: "deliverable submission failed",
	}
	if err := e.transport.Deliver(ctx, jobID, fallback); err != nil {
		e.log.WithError(err).Error("fallback delivery also failed", map[string]interface{}{
			"job_id":   jobID,
			"job_kind": jobKind,
		})
	}
}

func (e *Engine) recordHistory(ctx context.Context, jobID int64, jobKind string, succeeded bool, payload interface{}) {
	if err := e.history.RecordDelivery(ctx, jobID, jobKind, succeeded, payload); err != nil {
		e.log.WithError(err).Warn("failed to record delivery history", map[string]interface{}{
			"job_id": jobID,
		})
	}
}

func (e *Engine) sendAlerts(ctx context.Context, deliverable interface{}) {
	health, ok := deliverable.(*positionhealth.Output)
	if !ok {
		return
	}
	if err := e.notifier.NotifyBreaches(ctx, health); err != nil {
		e.log.WithError(err).Warn("failed to send breach alert", map[string]interface{}{
			"client_id": health.ClientID,
		})
	}
}

func (e *Engine) updateStoreGauge(ctx context.Context) {
	if size, err := e.store.Size(ctx); err == nil {
		metrics.ContextStoreSize.Set(float64(size))
	}
}

func kindOf(meta *models.JobMetadata) string {
	if meta == nil {
		return "unknown"
	}
	return meta.Kind
}

func kindFromEvent(event protocol.PhaseEvent) string {
	if meta := models.DecodeJobMetadata(event.StructuredContent); meta != nil {
		return meta.Kind
	}
	return "unknown"
}
