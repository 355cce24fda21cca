package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/thereayou/voxus/internal/websocket"
)

// ValidationError - отказ входной проверки. Уходит только отправителю,
// вместе с полями, не прошедшими проверку.
type ValidationError struct {
	fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

func (e *ValidationError) Fields() map[string]string {
	return e.fields
}

func newValidationError(field, rule string) *ValidationError {
	return &ValidationError{fields: map[string]string{field: rule}}
}

// decode разбирает data события в типизированный payload и проверяет его
func decode[T any](v *validator.Validate, data json.RawMessage) (T, error) {
	var payload T
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &payload); err != nil {
			return payload, fmt.Errorf("%w: %v", websocket.ErrInvalidMessage, err)
		}
	}
	if err := v.Struct(payload); err != nil {
		var invalid validator.ValidationErrors
		if !errors.As(err, &invalid) {
			return payload, err
		}
		fields := make(map[string]string, len(invalid))
		for _, fe := range invalid {
			fields[fe.Field()] = fe.Tag()
		}
		return payload, &ValidationError{fields: fields}
	}
	return payload, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
