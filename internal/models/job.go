package models

import (
	"encoding/json"
	"time"

	"defi-strategy-agent/internal/common/validation"
)

// JobMetadata is the negotiated job context cached between the acceptance
// phase and the delivery phase: the offered kind name and its requirement
// payload. Read-only once stored.
type JobMetadata struct {
	Kind        string                 `json:"name"`
	Requirement map[string]interface{} `json:"requirement"`
}

// DecodeJobMetadata extracts job metadata from a structured content map.
// Returns nil when the map carries no kind name.
func DecodeJobMetadata(content map[string]interface{}) *JobMetadata {
	if content == nil {
		return nil
	}
	kind, _ := content["name"].(string)
	if kind == "" {
		return nil
	}
	req, _ := content["requirement"].(map[string]interface{})
	return &JobMetadata{Kind: kind, Requirement: req}
}

// ParseJobMetadata best-effort decodes serialized content into job metadata.
// Returns nil on any parse failure; the caller treats that as "unresolved".
func ParseJobMetadata(raw string) *JobMetadata {
	if raw == "" {
		return nil
	}
	var content map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil
	}
	return DecodeJobMetadata(content)
}

// Meta is the envelope every deliverable carries regardless of job kind.
// Validation failure never blocks computation, so ValidationPassed=false can
// accompany a fully populated payload.
type Meta struct {
	JobName          string             `json:"job_name"`
	TimestampUTC     string             `json:"timestamp_utc"`
	ValidationPassed bool               `json:"validation_passed"`
	ValidationErrors []validation.Error `json:"validation_errors"`
}

// NewMeta stamps a deliverable envelope for the given kind and error set.
func NewMeta(jobName string, errs []validation.Error) Meta {
	if errs == nil {
		errs = []validation.Error{}
	}
	return Meta{
		JobName:          jobName,
		TimestampUTC:     time.Now().UTC().Format(time.RFC3339),
		ValidationPassed: len(errs) == 0,
		ValidationErrors: errs,
	}
}
