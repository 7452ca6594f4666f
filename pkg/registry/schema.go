package registry

// OfferingRegistry is the catalog of job kinds this agent sells through the
// negotiation protocol, loaded from a JSON file at startup.
type OfferingRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Offerings   []Offering `json:"offerings"`
}

// Offering describes one sellable job kind.
type Offering struct {
	Kind              string                 `json:"kind"`
	DisplayName       string                 `json:"displayName"`
	Description       string                 `json:"description"`
	PriceUSD          float64                `json:"priceUsd"`
	RequirementSchema map[string]interface{} `json:"requirementSchema"`
	Tags              []string               `json:"tags"`
}

// Find returns the offering for a kind name, or nil.
func (r *OfferingRegistry) Find(kind string) *Offering {
	for i := range r.Offerings {
		if r.Offerings[i].Kind == kind {
			return &r.Offerings[i]
		}
	}
	return nil
}

// Kinds lists the offered kind names in registry order.
func (r *OfferingRegistry) Kinds() []string {
	out := make([]string, 0, len(r.Offerings))
	for _, o := range r.Offerings {
		out = append(out, o.Kind)
	}
	return out
}
