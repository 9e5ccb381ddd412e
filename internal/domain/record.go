package domain

// Record represents a CRM object (company, deal, product, line item) as
// returned by the HubSpot API. Records live for the duration of one event and
// are never cached.
type Record struct {
	ID           string                    `json:"id"`
	Properties   map[string]string         `json:"properties"`
	Associations map[string]AssociationSet `json:"associations,omitempty"`
	CreatedAt    string                    `json:"createdAt,omitempty"`
	UpdatedAt    string                    `json:"updatedAt,omitempty"`
	Archived     bool                      `json:"archived,omitempty"`
}

// Property returns the named property, or "" when absent.
func (r *Record) Property(name string) string {
	if r == nil {
		return ""
	}
	return r.Properties[name]
}

// FirstProperty returns the first non-empty value among the candidate
// property names, tried in order.
func (r *Record) FirstProperty(candidates []string) string {
	for _, name := range candidates {
		if v := r.Property(name); v != "" {
			return v
		}
	}
	return ""
}

// AssociationSet is an ordered collection of references to related objects.
// Source ordering is not guaranteed beyond "first result wins" for singular
// associations.
type AssociationSet struct {
	Results []AssociationRef `json:"results"`
}

// AssociationRef is a single reference to an associated object.
type AssociationRef struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
}

// First returns the first referenced id, or ok=false for an empty set.
func (s AssociationSet) First() (string, bool) {
	if len(s.Results) == 0 {
		return "", false
	}
	return s.Results[0].ID, true
}

// IDs returns the referenced ids in result order.
func (s AssociationSet) IDs() []string {
	ids := make([]string, len(s.Results))
	for i, ref := range s.Results {
		ids[i] = ref.ID
	}
	return ids
}
