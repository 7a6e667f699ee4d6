// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

// Package validation wraps go-playground/validator v10 with the tags used by
// dashboard criteria, API query parameters and configuration.
//
// Custom tags:
//   - countrykey: a country group key, "cc:XX" or "nm:<name>"
//   - constituencykey: a country group key, "|" and a lower-cased constituency
//
// Field names in messages follow the json tag, so a failed Criteria reads
// "q must be at most 200 characters" rather than naming the Go field:
//
//	if verr := validation.ValidateStruct(&criteria); verr != nil {
//	    return verr
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrorCode is the API error code of every validation failure.
const ErrorCode = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once

	countryKeyExpr      = regexp.MustCompile(`^(cc:[A-Z]{2}|nm:.+)$`)
	constituencyKeyExpr = regexp.MustCompile(`^(cc:[A-Z]{2}|nm:[^|]+)\|.+$`)
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError lists every failed rule of one struct.
type RequestValidationError struct {
	fields []FieldError
}

// Fields returns the failed rules in struct order.
func (ve *RequestValidationError) Fields() []FieldError {
	return ve.fields
}

func (ve *RequestValidationError) Error() string {
	if len(ve.fields) == 0 {
		return "validation failed"
	}
	if len(ve.fields) == 1 {
		return ve.fields[0].Message
	}
	parts := make([]string, len(ve.fields))
	for i, f := range ve.fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return strings.Join(parts, "; ")
}

// APIError is the response body shape of a validation failure.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// ToAPIError renders the failure for a 400 response. A single failure names
// its field and tag; several are listed under "fields".
func (ve *RequestValidationError) ToAPIError() *APIError {
	out := &APIError{Code: ErrorCode, Message: ve.Error()}
	switch len(ve.fields) {
	case 0:
	case 1:
		f := ve.fields[0]
		out.Details = map[string]any{"field": f.Field, "tag": f.Tag}
	default:
		fields := make([]map[string]any, len(ve.fields))
		for i, f := range ve.fields {
			fields[i] = map[string]any{"field": f.Field, "tag": f.Tag, "message": f.Message}
		}
		out.Details = map[string]any{"fields": fields}
	}
	return out
}

// GetValidator returns the shared validator, registering the custom tags on
// first use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "koanf"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
		mustRegister("countrykey", matches(countryKeyExpr))
		mustRegister("constituencykey", matches(constituencyKeyExpr))
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

func matches(expr *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return expr.MatchString(fl.Field().String())
	}
}

// ValidateStruct checks s against its validate tags. It returns nil when
// every rule passes.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}
	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		}
	}
	return &RequestValidationError{fields: out}
}

var plainMessages = map[string]string{
	"required":        "%s is required",
	"latitude":        "%s must be a valid latitude (-90 to 90)",
	"longitude":       "%s must be a valid longitude (-180 to 180)",
	"countrykey":      "%s must be a country key (cc:XX or nm:name)",
	"constituencykey": "%s must be a constituency key (country key|name)",
}

var paramMessages = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func message(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()
	if tmpl, ok := plainMessages[tag]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := paramMessages[tag]; ok {
		return fmt.Sprintf(tmpl, field, param)
	}

	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	case "excluded_with":
		others := strings.ToLower(strings.ReplaceAll(param, " ", " or "))
		return fmt.Sprintf("%s cannot be set together with %s", field, others)
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}
