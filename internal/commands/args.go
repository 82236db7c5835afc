package commands

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ParseInlineArgs populates struct from positional arg string
// Format: "value1 value2 value3" maps to struct fields in order
// Optional fields use defaults if not provided
//
// Struct tags format:
//
//	Field type `form:"name" title:"Display" validate:"rules" default:"val" optional:"true"`
func ParseInlineArgs(argsStruct interface{}, argString string) error {
	if argsStruct == nil {
		return nil
	}

	val := reflect.ValueOf(argsStruct)
	if val.Kind() != reflect.Ptr {
		return fmt.Errorf("argsStruct must be a pointer to struct")
	}
	val = val.Elem()

	if val.Kind() != reflect.Struct {
		return fmt.Errorf("argsStruct must be a pointer to struct")
	}

	// Split args string by whitespace
	argString = strings.TrimSpace(argString)
	var args []string
	if argString != "" {
		args = strings.Fields(argString)
	}

	typ := val.Type()
	argIdx := 0

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		// Skip fields without form tag
		formTag := field.Tag.Get("form")
		if formTag == "" {
			continue
		}

		optional := field.Tag.Get("optional") == "true"
		defaultTag := field.Tag.Get("default")

		var argValue string
		if argIdx < len(args) {
			// Use provided arg
			argValue = args[argIdx]
			argIdx++
		} else if optional && defaultTag != "" {
			// Use default for optional field
			argValue = defaultTag
		} else if optional {
			// Optional field without default, skip
			continue
		} else {
			// Required field missing
			return fmt.Errorf("missing required argument: %s", fieldTitle(field))
		}

		// Convert and set value based on field type
		if err := setFieldValue(fieldVal, argValue); err != nil {
			return fmt.Errorf("invalid value for %s: %w", fieldTitle(field), err)
		}

		// Validate if validation tag present
		validation := field.Tag.Get("validate")
		if validation != "" {
			if err := validateField(fieldVal, validation); err != nil {
				return fmt.Errorf("validation failed for %s: %w", fieldTitle(field), err)
			}
		}
	}

	return nil
}

// fieldTitle returns the display name for a struct field, preferring the
// title tag over the Go field name.
func fieldTitle(field reflect.StructField) string {
	if title := field.Tag.Get("title"); title != "" {
		return title
	}
	return field.Name
}

// setFieldValue sets a reflect.Value from a string
func setFieldValue(fieldVal reflect.Value, value string) error {
	if !fieldVal.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch fieldVal.Kind() {
	case reflect.String:
		fieldVal.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("must be an integer")
		}
		fieldVal.SetInt(intVal)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintVal, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("must be a positive integer")
		}
		fieldVal.SetUint(uintVal)
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("must be true or false")
		}
		fieldVal.SetBool(boolVal)
	default:
		return fmt.Errorf("unsupported field type: %s", fieldVal.Kind())
	}

	return nil
}

// validateField validates a field value against validation rules. Unknown
// rules are skipped so display-only hints can share the tag.
func validateField(fieldVal reflect.Value, validation string) error {
	rules := strings.Split(validation, ",")

	for _, rule := range rules {
		rule = strings.TrimSpace(rule)

		if rule == "required" {
			// Check if zero value
			if fieldVal.IsZero() {
				return fmt.Errorf("required")
			}
		} else if strings.HasPrefix(rule, "min=") {
			minStr := strings.TrimPrefix(rule, "min=")
			min, err := strconv.ParseInt(minStr, 10, 64)
			if err != nil {
				continue
			}

			switch fieldVal.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				if fieldVal.Int() < min {
					return fmt.Errorf("must be >= %d", min)
				}
			}
		} else if strings.HasPrefix(rule, "max=") {
			maxStr := strings.TrimPrefix(rule, "max=")
			max, err := strconv.ParseInt(maxStr, 10, 64)
			if err != nil {
				continue
			}

			switch fieldVal.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				if fieldVal.Int() > max {
					return fmt.Errorf("must be <= %d", max)
				}
			}
		}
	}

	return nil
}
