package source

import (
	"testing"
)

func TestValidateIndicators(t *testing.T) {
	records := []map[string]any{
		{
			"id":            "license",
			"name":          "Software Has License",
			"description":   "Checks for a license file",
			"dimension":     "legal",
			"related_tools": []any{"howfairis", "cffconvert"},
		},
		{"name": "no id here"},
		{"id": "no-name-here"},
	}

	validated := ValidateIndicators(records)
	if len(validated) != 1 {
		t.Fatalf("Expected 1 validated indicator, got %d", len(validated))
	}

	ind := validated[0]
	if ind.ID != "license" || ind.Dimension != "legal" {
		t.Errorf("Unexpected indicator: %+v", ind)
	}
	if len(ind.RelatedTools) != 2 {
		t.Errorf("Expected 2 related tools, got %v", ind.RelatedTools)
	}
}

func TestValidateIndicators_JSONLDIdentifier(t *testing.T) {
	records := []map[string]any{
		{
			"@id":  "https://w3id.org/everse/i/indicators/license",
			"name": "Software Has License",
		},
	}

	validated := ValidateIndicators(records)
	if len(validated) != 1 {
		t.Fatalf("Expected 1 validated indicator, got %d", len(validated))
	}
	if validated[0].ID != "https://w3id.org/everse/i/indicators/license" {
		t.Errorf("Expected @id fallback, got %s", validated[0].ID)
	}
}

func TestValidateIndicators_IDTakesPrecedenceOverJSONLD(t *testing.T) {
	records := []map[string]any{
		{"id": "license", "@id": "https://example.org/other", "name": "License"},
	}

	validated := ValidateIndicators(records)
	if len(validated) != 1 {
		t.Fatalf("Expected 1 validated indicator, got %d", len(validated))
	}
	if validated[0].ID != "license" {
		t.Errorf("Expected plain id to win, got %s", validated[0].ID)
	}
}

func TestValidateTools_MetadataRetainsRawRecord(t *testing.T) {
	records := []map[string]any{
		{
			"id":       "howfairis",
			"name":     "howfairis",
			"ring":     "adopt",
			"quadrant": "fairness",
			"custom":   "kept verbatim",
		},
	}

	validated := ValidateTools(records)
	if len(validated) != 1 {
		t.Fatalf("Expected 1 validated tool, got %d", len(validated))
	}

	tool := validated[0]
	if tool.Ring != "adopt" || tool.Quadrant != "fairness" {
		t.Errorf("Unexpected tool: %+v", tool)
	}
	if tool.Metadata["custom"] != "kept verbatim" {
		t.Errorf("Expected custom field in metadata, got %v", tool.Metadata)
	}
}

func TestValidateDimensions(t *testing.T) {
	records := []map[string]any{
		{
			"id":         "legal",
			"name":       "Legal Compliance",
			"indicators": []any{"license", 42, "citation"},
		},
	}

	validated := ValidateDimensions(records)
	if len(validated) != 1 {
		t.Fatalf("Expected 1 validated dimension, got %d", len(validated))
	}
	// Non-string list entries are dropped.
	if len(validated[0].Indicators) != 2 {
		t.Errorf("Expected 2 indicator IDs, got %v", validated[0].Indicators)
	}
}

func TestStringList_MissingOrWrongType(t *testing.T) {
	record := map[string]any{"scalar": "not a list"}

	if got := stringList(record, "missing"); got != nil {
		t.Errorf("Expected nil for missing key, got %v", got)
	}
	if got := stringList(record, "scalar"); got != nil {
		t.Errorf("Expected nil for non-list value, got %v", got)
	}
}
