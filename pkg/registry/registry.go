package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// registrySchema guards the registry file shape before unmarshaling, so a
// malformed entry fails loudly at startup instead of surfacing mid-negotiation.
const registrySchema = `{
	"type": "object",
	"required": ["version", "offerings"],
	"properties": {
		"version": {"type": "string"},
		"lastUpdated": {"type": "string"},
		"offerings": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["kind", "displayName", "priceUsd"],
				"properties": {
					"kind": {"type": "string", "minLength": 1},
					"displayName": {"type": "string"},
					"description": {"type": "string"},
					"priceUsd": {"type": "number", "minimum": 0},
					"requirementSchema": {"type": "object"},
					"tags": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

// Load reads and validates the offering registry from path.
func Load(path string) (*OfferingRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(registrySchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate registry: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("registry file invalid: %v", result.Errors())
	}

	var reg OfferingRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return &reg, nil
}
