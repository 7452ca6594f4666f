// Package protocol defines the shapes exchanged with the commerce-protocol
// gateway and the Transport the agent calls back on. The gateway serializes
// phase events per job, so handler invocations never overlap for one job id.
package protocol

import "context"

// Protocol lifecycle phases. Only the transitions into Negotiation and into
// Evaluation require agent action; every other phase value is a no-op.
const (
	PhaseRequest     = 0
	PhaseNegotiation = 1
	PhaseTransaction = 2
	PhaseEvaluation  = 3
)

// StatusPending marks a phase event awaiting a provider response.
const StatusPending = "pending"

// PhaseEvent is an inbound phase-change notification for one job.
type PhaseEvent struct {
	Status            string                 `json:"status"`
	NextPhase         int                    `json:"nextPhase"`
	StructuredContent map[string]interface{} `json:"structuredContent,omitempty"`
	Content           string                 `json:"content,omitempty"`
}

// Job is the handle the gateway exposes for one unit of work.
type Job struct {
	ID    int64                  `json:"id"`
	Phase int                    `json:"phase"`
	Input map[string]interface{} `json:"input,omitempty"`
}

// Transport is the outbound half of the protocol: the agent responds to
// offers during negotiation and submits deliverables during evaluation.
type Transport interface {
	Respond(ctx context.Context, jobID int64, accept bool, reason string) error
	Deliver(ctx context.Context, jobID int64, payload interface{}) error
}
