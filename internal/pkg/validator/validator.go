package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"homyhive/internal/core/domain"

	playground "github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

// Validator checks request payloads before they reach the services.
// Listing and review payloads are checked against JSON schemas, service
// input structs against their `validate` tags.
type Validator struct {
	listing *gojsonschema.Schema
	review  *gojsonschema.Schema
	structs *playground.Validate
}

// New compiles the schemas
func New() (*Validator, error) {
	listing, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(listingSchema()))
	if err != nil {
		return nil, fmt.Errorf("compile listing schema: %w", err)
	}
	review, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(reviewSchema()))
	if err != nil {
		return nil, fmt.Errorf("compile review schema: %w", err)
	}

	structs := playground.New()
	structs.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{listing: listing, review: review, structs: structs}, nil
}

// MustNew is New for wiring code that cannot continue without schemas
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// ValidateListing checks a listing payload
func (v *Validator) ValidateListing(doc interface{}) error {
	return validateAgainst(v.listing, doc, "invalid listing")
}

// ValidateReview checks a review payload
func (v *Validator) ValidateReview(doc interface{}) error {
	return validateAgainst(v.review, doc, "invalid review")
}

// Struct checks a value against its `validate` tags
func (v *Validator) Struct(s interface{}) error {
	err := v.structs.Struct(s)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return domain.NewValidationError("invalid input", fields...)
}

func validateAgainst(schema *gojsonschema.Schema, doc interface{}, message string) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return domain.NewValidationError(message + ": malformed payload")
	}
	if result.Valid() {
		return nil
	}

	fields := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields = append(fields, fieldOf(desc))
	}
	return domain.NewValidationError(message, fields...)
}

func fieldOf(desc gojsonschema.ResultError) string {
	if desc.Type() == "required" {
		if p, ok := desc.Details()["property"]; ok {
			return fmt.Sprint(p)
		}
	}
	field := desc.Field()
	if i := strings.IndexByte(field, '.'); i > 0 {
		field = field[:i]
	}
	return field
}

func listingSchema() map[string]interface{} {
	categories := make([]interface{}, len(domain.Categories))
	for i, c := range domain.Categories {
		categories[i] = c
	}
	policies := make([]interface{}, len(domain.CancellationPolicies))
	for i, p := range domain.CancellationPolicies {
		policies[i] = p
	}

	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"title", "description", "location", "country", "price"},
		"properties": map[string]interface{}{
			"title":        map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 120},
			"description":  map[string]interface{}{"type": "string", "minLength": 1},
			"location":     map[string]interface{}{"type": "string", "minLength": 1},
			"country":      map[string]interface{}{"type": "string", "minLength": 1},
			"price":        map[string]interface{}{"type": "number", "minimum": 0},
			"guests":       map[string]interface{}{"type": "integer", "minimum": 1},
			"propertyType": map[string]interface{}{"type": "string"},
			"category":     map[string]interface{}{"type": "string", "enum": categories},
			"cancellation": map[string]interface{}{"type": "string", "enum": policies},
			"amenities": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"image": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"url":      map[string]interface{}{"type": "string"},
					"filename": map[string]interface{}{"type": "string"},
				},
			},
		},
	}
}

func reviewSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"rating", "comment"},
		"properties": map[string]interface{}{
			"rating":  map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 5},
			"comment": map[string]interface{}{"type": "string", "minLength": 1, "pattern": "\\S"},
		},
	}
}
