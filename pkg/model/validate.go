package model

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks entities against the schema rules. Invalid entities are
// flagged, not rejected: the caller gets the error strings and decides what
// to do with the records.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the entity rules registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// entityid: a URL or a plain alphanumeric/hyphen/underscore token.
	_ = v.RegisterValidation("entityid", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
			return true
		}
		for _, c := range id {
			if !isIDRune(c) {
				return false
			}
		}
		return id != ""
	})

	// techring: one of the TechRadar rings, case-insensitive.
	_ = v.RegisterValidation("techring", func(fl validator.FieldLevel) bool {
		return ValidRing(fl.Field().String())
	})

	return &Validator{validate: v}
}

func isIDRune(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}

// ValidateIndicator returns human-readable problems with an indicator.
func (v *Validator) ValidateIndicator(ind *Indicator) []string {
	return v.describe("Indicator", ind.ID, v.validate.Struct(ind))
}

// ValidateTool returns human-readable problems with a tool.
func (v *Validator) ValidateTool(t *Tool) []string {
	return v.describe("Tool", t.ID, v.validate.Struct(t))
}

// ValidateDimension returns human-readable problems with a dimension.
func (v *Validator) ValidateDimension(d *Dimension) []string {
	return v.describe("Dimension", d.ID, v.validate.Struct(d))
}

// ValidateCollections validates every entity and returns whether all passed
// together with the accumulated error strings.
func (v *Validator) ValidateCollections(indicators []*Indicator, tools []*Tool, dimensions []*Dimension) (bool, []string) {
	var errs []string
	for _, ind := range indicators {
		errs = append(errs, v.ValidateIndicator(ind)...)
	}
	for _, t := range tools {
		errs = append(errs, v.ValidateTool(t)...)
	}
	for _, d := range dimensions {
		errs = append(errs, v.ValidateDimension(d)...)
	}
	return len(errs) == 0, errs
}

// describe turns validator errors into the messages the generator reports.
func (v *Validator) describe(kind, id string, err error) []string {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{fmt.Sprintf("%s %s: %v", kind, id, err)}
	}

	var msgs []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s missing required field: %s", kind, strings.ToLower(fe.Field())))
		case "entityid":
			msgs = append(msgs, fmt.Sprintf("%s ID has invalid format: %s", kind, fe.Value()))
		case "techring":
			msgs = append(msgs, fmt.Sprintf("%s has invalid ring: %s", kind, fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s %s failed %s validation", kind, fe.Field(), fe.Tag()))
		}
	}
	return msgs
}
