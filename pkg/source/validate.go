package source

import (
	"github.com/everse/unified-api/pkg/logging"
	"github.com/everse/unified-api/pkg/model"
)

// ValidateIndicators converts raw records into typed indicators. Records
// without an id or name are skipped with a warning; everything else is kept,
// with the full raw record retained as the metadata bag. The id may come from
// "id" or the JSON-LD "@id" field.
func ValidateIndicators(records []map[string]any) []*model.Indicator {
	logging.Info("validating indicators", "count", len(records))

	var validated []*model.Indicator
	for _, record := range records {
		id := recordID(record)
		name := stringField(record, "name")
		if id == "" || name == "" {
			logging.Warn("skipping indicator without id or name", "id", id, "name", name)
			continue
		}

		validated = append(validated, &model.Indicator{
			ID:           id,
			Name:         name,
			Description:  stringField(record, "description"),
			Dimension:    stringField(record, "dimension"),
			Category:     stringField(record, "category"),
			Rationale:    stringField(record, "rationale"),
			URL:          stringField(record, "url"),
			RelatedTools: stringList(record, "related_tools"),
			Metadata:     model.Metadata(record),
		})
	}

	logging.Info("validated indicators", "count", len(validated))
	return validated
}

// ValidateTools converts raw records into typed tools.
func ValidateTools(records []map[string]any) []*model.Tool {
	logging.Info("validating tools", "count", len(records))

	var validated []*model.Tool
	for _, record := range records {
		id := recordID(record)
		name := stringField(record, "name")
		if id == "" || name == "" {
			logging.Warn("skipping tool without id or name", "id", id, "name", name)
			continue
		}

		validated = append(validated, &model.Tool{
			ID:                id,
			Name:              name,
			Description:       stringField(record, "description"),
			URL:               stringField(record, "url"),
			Ring:              stringField(record, "ring"),
			Quadrant:          stringField(record, "quadrant"),
			RelatedIndicators: stringList(record, "related_indicators"),
			Metadata:          model.Metadata(record),
		})
	}

	logging.Info("validated tools", "count", len(validated))
	return validated
}

// ValidateDimensions converts raw records into typed dimensions.
func ValidateDimensions(records []map[string]any) []*model.Dimension {
	logging.Info("validating dimensions", "count", len(records))

	var validated []*model.Dimension
	for _, record := range records {
		id := recordID(record)
		name := stringField(record, "name")
		if id == "" || name == "" {
			logging.Warn("skipping dimension without id or name", "id", id, "name", name)
			continue
		}

		validated = append(validated, &model.Dimension{
			ID:          id,
			Name:        name,
			Description: stringField(record, "description"),
			Indicators:  stringList(record, "indicators"),
			Metadata:    model.Metadata(record),
		})
	}

	logging.Info("validated dimensions", "count", len(validated))
	return validated
}

func recordID(record map[string]any) string {
	if id := stringField(record, "id"); id != "" {
		return id
	}
	return stringField(record, "@id")
}

func stringField(record map[string]any, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}

func stringList(record map[string]any, key string) []string {
	raw, ok := record[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
