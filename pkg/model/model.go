package model

import "strings"

// EntityType names the collection an entity belongs to.
type EntityType string

const (
	EntityIndicator EntityType = "Indicator"
	EntityTool      EntityType = "Tool"
	EntityDimension EntityType = "Dimension"
)

// RelationType is the kind of link between two entities.
type RelationType string

const (
	RelationMeasures   RelationType = "measures"    // Tool -> Indicator
	RelationMeasuredBy RelationType = "measured_by" // Indicator -> Tool
	RelationContains   RelationType = "contains"    // Dimension -> Indicator
	RelationPartOf     RelationType = "part_of"     // Indicator -> Dimension
)

// Metadata carries the original raw record verbatim. The typed fields on the
// entities are the closed schema; everything else from the source JSON lives
// here.
type Metadata map[string]any

// Indicator is a quality indicator record.
type Indicator struct {
	ID           string   `json:"id" validate:"required,entityid"`
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description,omitempty"`
	Dimension    string   `json:"dimension,omitempty"` // Dimension ID
	Category     string   `json:"category,omitempty"`
	Rationale    string   `json:"rationale,omitempty"`
	URL          string   `json:"url,omitempty"`
	RelatedTools []string `json:"related_tools"` // Tool IDs, duplicates allowed
	Metadata     Metadata `json:"metadata,omitempty"`
}

// Tool is a quality assessment tool record from the TechRadar source.
type Tool struct {
	ID                string   `json:"id" validate:"required,entityid"`
	Name              string   `json:"name" validate:"required"`
	Description       string   `json:"description,omitempty"`
	URL               string   `json:"url,omitempty"`
	Ring              string   `json:"ring,omitempty" validate:"omitempty,techring"`
	Quadrant          string   `json:"quadrant,omitempty"`
	RelatedIndicators []string `json:"related_indicators"` // Indicator IDs
	Metadata          Metadata `json:"metadata,omitempty"`
}

// Dimension is a quality dimension record.
type Dimension struct {
	ID          string   `json:"id" validate:"required,entityid"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Indicators  []string `json:"indicators"` // Indicator IDs
	Metadata    Metadata `json:"metadata,omitempty"`
}

// RelationshipEdge is a directed, typed link between two entities. Edges are
// not deduplicated; the same logical link appears once per direction it is
// declared from in the source data.
type RelationshipEdge struct {
	SourceID         string       `json:"source_id"`
	SourceType       EntityType   `json:"source_type"`
	TargetID         string       `json:"target_id"`
	TargetType       EntityType   `json:"target_type"`
	RelationshipType RelationType `json:"relationship_type"`
}

// Rings are the valid TechRadar adoption classifications.
var Rings = []string{"adopt", "trial", "assess", "hold"}

// ValidRing reports whether ring is a known classification. Matching is
// case-insensitive.
func ValidRing(ring string) bool {
	lower := strings.ToLower(ring)
	for _, r := range Rings {
		if lower == r {
			return true
		}
	}
	return false
}

// SafeFileName maps an entity ID to a filename-safe form. URL IDs keep only
// their last path segment.
func SafeFileName(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
