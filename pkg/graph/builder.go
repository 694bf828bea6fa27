package graph

import (
	"fmt"
	"sort"

	"github.com/everse/unified-api/pkg/logging"
	"github.com/everse/unified-api/pkg/model"
)

// Builder holds the three entity collections and derives the typed edges
// between them. It is append-only-then-frozen: call the Add methods, then
// BuildAll exactly once, then query or export. The builder is not safe for
// concurrent use; serialize all mutation before any reads.
type Builder struct {
	indicators map[string]*model.Indicator
	tools      map[string]*model.Tool
	dimensions map[string]*model.Dimension
	edges      []model.RelationshipEdge
}

// NewBuilder creates an empty relationship builder.
func NewBuilder() *Builder {
	return &Builder{
		indicators: make(map[string]*model.Indicator),
		tools:      make(map[string]*model.Tool),
		dimensions: make(map[string]*model.Dimension),
	}
}

// AddIndicators inserts indicators keyed by ID. A later call for the same ID
// silently replaces the earlier entity (last write wins).
func (b *Builder) AddIndicators(indicators []*model.Indicator) {
	for _, ind := range indicators {
		b.indicators[ind.ID] = ind
	}
	logging.Info("added indicators", "count", len(indicators))
}

// AddTools inserts tools keyed by ID, last write wins.
func (b *Builder) AddTools(tools []*model.Tool) {
	for _, t := range tools {
		b.tools[t.ID] = t
	}
	logging.Info("added tools", "count", len(tools))
}

// AddDimensions inserts dimensions keyed by ID, last write wins.
func (b *Builder) AddDimensions(dimensions []*model.Dimension) {
	for _, d := range dimensions {
		b.dimensions[d.ID] = d
	}
	logging.Info("added dimensions", "count", len(dimensions))
}

// BuildAll runs the four derivation passes. The passes are independent and
// order-insensitive; entity IDs are visited in sorted order so repeated runs
// emit an identical edge sequence. Calling BuildAll twice appends a second
// full set of edges; it is the caller's responsibility to call it once per
// set of collections.
func (b *Builder) BuildAll() {
	logging.Info("building all relationships")
	b.buildToolToIndicator()
	b.buildIndicatorToTool()
	b.buildDimensionToIndicator()
	b.buildIndicatorToDimension()
	logging.Info("total relationships built", "count", len(b.edges))
}

// buildToolToIndicator emits a measures edge for every indicator ID a tool
// declares, once per occurrence. Dangling references are logged and skipped.
func (b *Builder) buildToolToIndicator() {
	count := 0
	for _, toolID := range sortedKeys(b.tools) {
		for _, indicatorID := range b.tools[toolID].RelatedIndicators {
			if _, ok := b.indicators[indicatorID]; !ok {
				logging.Warn("tool references unknown indicator", "tool", toolID, "indicator", indicatorID)
				continue
			}
			b.edges = append(b.edges, model.RelationshipEdge{
				SourceID:         toolID,
				SourceType:       model.EntityTool,
				TargetID:         indicatorID,
				TargetType:       model.EntityIndicator,
				RelationshipType: model.RelationMeasures,
			})
			count++
		}
	}
	logging.Info("created tool->indicator relationships", "count", count)
}

// buildIndicatorToTool is the reverse direction, sourced independently from
// the indicators' related_tools lists. It is not reconciled with the forward
// pass: asymmetric source data yields asymmetric edges.
func (b *Builder) buildIndicatorToTool() {
	count := 0
	for _, indicatorID := range sortedKeys(b.indicators) {
		for _, toolID := range b.indicators[indicatorID].RelatedTools {
			if _, ok := b.tools[toolID]; !ok {
				logging.Warn("indicator references unknown tool", "indicator", indicatorID, "tool", toolID)
				continue
			}
			b.edges = append(b.edges, model.RelationshipEdge{
				SourceID:         indicatorID,
				SourceType:       model.EntityIndicator,
				TargetID:         toolID,
				TargetType:       model.EntityTool,
				RelationshipType: model.RelationMeasuredBy,
			})
			count++
		}
	}
	logging.Info("created indicator->tool relationships", "count", count)
}

func (b *Builder) buildDimensionToIndicator() {
	count := 0
	for _, dimensionID := range sortedKeys(b.dimensions) {
		for _, indicatorID := range b.dimensions[dimensionID].Indicators {
			if _, ok := b.indicators[indicatorID]; !ok {
				logging.Warn("dimension references unknown indicator", "dimension", dimensionID, "indicator", indicatorID)
				continue
			}
			b.edges = append(b.edges, model.RelationshipEdge{
				SourceID:         dimensionID,
				SourceType:       model.EntityDimension,
				TargetID:         indicatorID,
				TargetType:       model.EntityIndicator,
				RelationshipType: model.RelationContains,
			})
			count++
		}
	}
	logging.Info("created dimension->indicator relationships", "count", count)
}

func (b *Builder) buildIndicatorToDimension() {
	count := 0
	for _, indicatorID := range sortedKeys(b.indicators) {
		dimensionID := b.indicators[indicatorID].Dimension
		if dimensionID == "" {
			continue
		}
		if _, ok := b.dimensions[dimensionID]; !ok {
			logging.Warn("indicator references unknown dimension", "indicator", indicatorID, "dimension", dimensionID)
			continue
		}
		b.edges = append(b.edges, model.RelationshipEdge{
			SourceID:         indicatorID,
			SourceType:       model.EntityIndicator,
			TargetID:         dimensionID,
			TargetType:       model.EntityDimension,
			RelationshipType: model.RelationPartOf,
		})
		count++
	}
	logging.Info("created indicator->dimension relationships", "count", count)
}

// Edges returns the derived edges in build order.
func (b *Builder) Edges() []model.RelationshipEdge {
	return b.edges
}

// Indicator looks up an indicator by ID.
func (b *Builder) Indicator(id string) (*model.Indicator, bool) {
	ind, ok := b.indicators[id]
	return ind, ok
}

// Tool looks up a tool by ID.
func (b *Builder) Tool(id string) (*model.Tool, bool) {
	t, ok := b.tools[id]
	return t, ok
}

// Dimension looks up a dimension by ID.
func (b *Builder) Dimension(id string) (*model.Dimension, bool) {
	d, ok := b.dimensions[id]
	return d, ok
}

// ToolsForIndicator returns the tools that measure an indicator. Duplicate
// edges collapse to one tool; IDs that no longer resolve are dropped. Results
// are sorted by tool ID, not by source order.
func (b *Builder) ToolsForIndicator(indicatorID string) []*model.Tool {
	ids := make(map[string]bool)
	for _, e := range b.edges {
		if e.TargetID == indicatorID && e.RelationshipType == model.RelationMeasures {
			ids[e.SourceID] = true
		}
	}

	tools := make([]*model.Tool, 0, len(ids))
	for _, id := range sortedSet(ids) {
		if t, ok := b.tools[id]; ok {
			tools = append(tools, t)
		}
	}
	return tools
}

// IndicatorsForTool returns the indicators a tool measures, deduplicated.
func (b *Builder) IndicatorsForTool(toolID string) []*model.Indicator {
	ids := make(map[string]bool)
	for _, e := range b.edges {
		if e.SourceID == toolID && e.RelationshipType == model.RelationMeasures {
			ids[e.TargetID] = true
		}
	}

	indicators := make([]*model.Indicator, 0, len(ids))
	for _, id := range sortedSet(ids) {
		if ind, ok := b.indicators[id]; ok {
			indicators = append(indicators, ind)
		}
	}
	return indicators
}

// IndicatorsForDimension returns the indicators a dimension contains,
// deduplicated.
func (b *Builder) IndicatorsForDimension(dimensionID string) []*model.Indicator {
	ids := make(map[string]bool)
	for _, e := range b.edges {
		if e.SourceID == dimensionID && e.RelationshipType == model.RelationContains {
			ids[e.TargetID] = true
		}
	}

	indicators := make([]*model.Indicator, 0, len(ids))
	for _, id := range sortedSet(ids) {
		if ind, ok := b.indicators[id]; ok {
			indicators = append(indicators, ind)
		}
	}
	return indicators
}

// Validate checks every stored edge for referential integrity: the source ID
// must resolve in the collection named by its source type, then the target
// likewise. An edge fails at most once; a dangling source short-circuits the
// target check. Returns the count of structurally valid edges and one error
// string per violation.
func (b *Builder) Validate() (int, []string) {
	logging.Info("validating relationships")

	valid := 0
	var errors []string

	for _, e := range b.edges {
		if msg, ok := b.resolve(e.SourceType, e.SourceID); !ok {
			errors = append(errors, msg)
			continue
		}
		if msg, ok := b.resolve(e.TargetType, e.TargetID); !ok {
			errors = append(errors, msg)
			continue
		}
		valid++
	}

	logging.Info("validated relationships", "valid", valid)
	if len(errors) > 0 {
		logging.Warn("relationship validation errors", "count", len(errors))
	}
	return valid, errors
}

func (b *Builder) resolve(kind model.EntityType, id string) (string, bool) {
	var ok bool
	switch kind {
	case model.EntityIndicator:
		_, ok = b.indicators[id]
		if !ok {
			return fmt.Sprintf("relationship references unknown indicator %s", id), false
		}
	case model.EntityTool:
		_, ok = b.tools[id]
		if !ok {
			return fmt.Sprintf("relationship references unknown tool %s", id), false
		}
	case model.EntityDimension:
		_, ok = b.dimensions[id]
		if !ok {
			return fmt.Sprintf("relationship references unknown dimension %s", id), false
		}
	default:
		return fmt.Sprintf("relationship has unknown entity type %s", kind), false
	}
	return "", true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSet(s map[string]bool) []string {
	return sortedKeys(s)
}
