package application

import "anchorbar/internal/domain"

// Re-export domain types for use by adapters
type (
	Annotation = domain.Annotation
	Label      = domain.Label
	Hemisphere = domain.Hemisphere
	Policy     = domain.Policy
)

const (
	PolicyIntersect = domain.PolicyIntersect
	PolicyUnion     = domain.PolicyUnion
)
