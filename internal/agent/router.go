package agent

import (
	"fmt"

	"defi-strategy-agent/internal/common/errors"
	"defi-strategy-agent/internal/common/validation"
	"defi-strategy-agent/internal/models"
	bundlebuilder "defi-strategy-agent/internal/workers/execution/bundle-builder"
	strategybacktest "defi-strategy-agent/internal/workers/research/strategy-backtest"
	positionhealth "defi-strategy-agent/internal/workers/risk/position-health"
	allocationplan "defi-strategy-agent/internal/workers/yield/allocation-plan"
	yieldscan "defi-strategy-agent/internal/workers/yield/scan-ranking"
)

// UnknownDeliverable is the uniform result for a job kind the router cannot
// match, and for delivery events whose metadata never resolved.
type UnknownDeliverable struct {
	models.Meta
	Message string `json:"message"`
}

// Dispatch routes negotiated job metadata to the matching deliverable
// computer. It never fails; an unmatched or missing kind yields the
// unknown-job deliverable.
func Dispatch(meta *models.JobMetadata) interface{} {
	if meta == nil {
		return unknownDeliverable("job metadata could not be resolved from cache or event content")
	}
	switch meta.Kind {
	case yieldscan.JobName:
		return yieldscan.Compute(meta.Requirement)
	case allocationplan.JobName:
		return allocationplan.Compute(meta.Requirement)
	case bundlebuilder.JobName:
		return bundlebuilder.Compute(meta.Requirement)
	case positionhealth.JobName:
		return positionhealth.Compute(meta.Requirement)
	case strategybacktest.JobName:
		return strategybacktest.Compute(meta.Requirement)
	default:
		ue := errors.NewUnknownJobKindError(meta.Kind)
		return unknownDeliverable(fmt.Sprintf("%s (%s)", ue.Message, ue.Details))
	}
}

// KnownKinds lists the job kinds the router can serve.
func KnownKinds() []string {
	return []string{
		yieldscan.JobName,
		allocationplan.JobName,
		bundlebuilder.JobName,
		positionhealth.JobName,
		strategybacktest.JobName,
	}
}

func unknownDeliverable(message string) *UnknownDeliverable {
	return &UnknownDeliverable{
		Meta: models.NewMeta("unknown", []validation.Error{
			{Message: message, Field: "name"},
		}),
		Message: message,
	}
}
