// Struct-tag validation for handler input, exercised from example/main.go
// through Context.Bind rather than called standalone: a failed Validate
// surfaces as a KindValidation RouterError (see errors.go) that a handler
// can test for with AsValidationErrors and turn into a response with
// Context.ValidationFailed.
//
// Supported tags: required, min:n, max:n, len:n, gt:n, gte:n, lt:n, lte:n,
// email, url, alpha, alphanum, numeric, uuid, oneof:a b c, pattern:regex.
// Tags combine with commas (validate:"required,min:2,max:50") and nested
// structs are always walked, tagged or not, with field names on the way
// down prefixed by their parent ("address.street").
package corvid

import (
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidationError is one field's validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string { return e.Message }

// ValidationErrors collects every failure a single Validate/ValidateVar
// call produced. It satisfies error itself so it can ride inside a
// RouterError's Err field (see errors.go's ValidationFailure).
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Message
	}
	return strings.Join(msgs, "; ")
}

// ToMap flattens the collection to field -> message, the shape
// Context.ValidationFailed sends as a JSON response body.
func (e ValidationErrors) ToMap() map[string]string {
	out := make(map[string]string, len(e))
	for _, err := range e {
		out[err.Field] = err.Message
	}
	return out
}

// HasErrors reports whether the collection is non-empty.
func (e ValidationErrors) HasErrors() bool { return len(e) > 0 }

// fieldValidator checks one field against a tag parameter, returning nil
// on success. Registered in the validators table below instead of a
// hand-written switch so adding a tag means adding one table entry.
type fieldValidator func(fieldName string, val reflect.Value, param string) *ValidationError

var validators = map[string]fieldValidator{
	"required": func(name string, val reflect.Value, _ string) *ValidationError {
		if isEmpty(val) {
			return &ValidationError{Field: name, Tag: "required", Message: name + " is required"}
		}
		return nil
	},
	"min": func(name string, val reflect.Value, param string) *ValidationError {
		return boundValidate(name, val, param, "min", true)
	},
	"max": func(name string, val reflect.Value, param string) *ValidationError {
		return boundValidate(name, val, param, "max", false)
	},
	"len":     validateLen,
	"email":   validateEmail,
	"url":     validateURL,
	"uuid":    validateUUID,
	"oneof":   validateOneOf,
	"pattern": validatePattern,
	"alpha": func(name string, val reflect.Value, _ string) *ValidationError {
		return validateCharset(name, val, "alpha", unicode.IsLetter, "contain only letters")
	},
	"alphanum": func(name string, val reflect.Value, _ string) *ValidationError {
		return validateCharset(name, val, "alphanum", func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }, "contain only letters and numbers")
	},
	"numeric": func(name string, val reflect.Value, _ string) *ValidationError {
		return validateCharset(name, val, "numeric", unicode.IsDigit, "contain only numbers")
	},
	"gt": func(name string, val reflect.Value, param string) *ValidationError {
		return compareValidate(name, val, param, "gt", "greater than", func(v, target float64) bool { return v <= target })
	},
	"gte": func(name string, val reflect.Value, param string) *ValidationError {
		return compareValidate(name, val, param, "gte", "at least", func(v, target float64) bool { return v < target })
	},
	"lt": func(name string, val reflect.Value, param string) *ValidationError {
		return compareValidate(name, val, param, "lt", "less than", func(v, target float64) bool { return v >= target })
	},
	"lte": func(name string, val reflect.Value, param string) *ValidationError {
		return compareValidate(name, val, param, "lte", "at most", func(v, target float64) bool { return v > target })
	},
}

// Validate walks v's exported fields (recursing into nested structs
// unconditionally) and applies every comma-separated validator named in
// each field's validate tag. Fields use their json tag name in errors
// when one is present.
func Validate(v interface{}) ValidationErrors {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return ValidationErrors{{Tag: "struct", Message: "validation requires a struct"}}
	}

	var errs ValidationErrors
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)
		if !fieldVal.CanInterface() {
			continue
		}

		name := jsonFieldName(field)
		errs = append(errs, applyTag(name, fieldVal, field.Tag.Get("validate"))...)

		if fieldVal.Kind() == reflect.Struct {
			for _, err := range Validate(fieldVal.Interface()) {
				err.Field = name + "." + err.Field
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// ValidateVar validates a single value against a tag string, for inputs
// that don't arrive as a struct field (a query parameter, a path segment
// already parsed to its target type). Errors are reported against the
// field name "value".
func ValidateVar(value interface{}, tag string) ValidationErrors {
	return applyTag("value", reflect.ValueOf(value), tag)
}

func jsonFieldName(field reflect.StructField) string {
	if jsonTag := field.Tag.Get("json"); jsonTag != "" {
		name := strings.Split(jsonTag, ",")[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

func applyTag(fieldName string, val reflect.Value, tag string) ValidationErrors {
	if tag == "" || tag == "-" {
		return nil
	}
	var out ValidationErrors
	for _, clause := range strings.Split(tag, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		name, param := clause, ""
		if idx := strings.IndexByte(clause, ':'); idx != -1 {
			name, param = clause[:idx], clause[idx+1:]
		}
		check, ok := validators[name]
		if !ok {
			continue // unknown tags are ignored, not rejected, for forward compatibility
		}
		if err := check(fieldName, val, param); err != nil {
			out = append(out, *err)
		}
	}
	return out
}

// boundValidate backs both min and max: the tag determines whether actual
// must be >= or <= the parsed limit. actual is a length for strings and
// collections, a numeric value otherwise.
func boundValidate(fieldName string, val reflect.Value, param, tag string, atLeast bool) *ValidationError {
	limit, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return nil
	}

	actual, ok := sizeOrValue(val)
	if !ok {
		return nil
	}

	verb := "at least"
	valid := actual >= limit
	if !atLeast {
		verb = "at most"
		valid = actual <= limit
	}
	if valid {
		return nil
	}
	return &ValidationError{
		Field: fieldName, Tag: tag, Value: param,
		Message: fmt.Sprintf("%s must be %s %s", fieldName, verb, param),
	}
}

func validateLen(fieldName string, val reflect.Value, param string) *ValidationError {
	want, err := strconv.Atoi(param)
	if err != nil {
		return nil
	}

	var got int
	switch val.Kind() {
	case reflect.String:
		got = len(val.String())
	case reflect.Slice, reflect.Array, reflect.Map:
		got = val.Len()
	default:
		return nil
	}
	if got == want {
		return nil
	}
	return &ValidationError{
		Field: fieldName, Tag: "len", Value: param,
		Message: fmt.Sprintf("%s must have exactly %d characters", fieldName, want),
	}
}

// compareValidate backs gt/gte/lt/lte. fails reports the invalid
// condition directly, so each caller supplies only its own comparison.
func compareValidate(fieldName string, val reflect.Value, param, tag, verb string, fails func(value, target float64) bool) *ValidationError {
	target, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return nil
	}
	value, ok := numericValue(val)
	if !ok {
		return nil
	}
	if !fails(value, target) {
		return nil
	}
	return &ValidationError{
		Field: fieldName, Tag: tag, Value: param,
		Message: fmt.Sprintf("%s must be %s %s", fieldName, verb, param),
	}
}

// validateCharset backs alpha/alphanum/numeric: every rune of a non-empty
// string must satisfy allowed.
func validateCharset(fieldName string, val reflect.Value, tag string, allowed func(rune) bool, describe string) *ValidationError {
	if val.Kind() != reflect.String {
		return nil
	}
	s := val.String()
	if s == "" {
		return nil
	}
	for _, r := range s {
		if !allowed(r) {
			return &ValidationError{Field: fieldName, Tag: tag, Message: fmt.Sprintf("%s must %s", fieldName, describe)}
		}
	}
	return nil
}

func validateEmail(fieldName string, val reflect.Value, _ string) *ValidationError {
	if val.Kind() != reflect.String || val.String() == "" {
		return nil
	}
	if _, err := mail.ParseAddress(val.String()); err != nil {
		return &ValidationError{Field: fieldName, Tag: "email", Message: fieldName + " must be a valid email address"}
	}
	return nil
}

var urlPattern = regexp.MustCompile(`^(https?|ftp)://[^\s/$.?#].[^\s]*$`)

func validateURL(fieldName string, val reflect.Value, _ string) *ValidationError {
	if val.Kind() != reflect.String || val.String() == "" {
		return nil
	}
	if !urlPattern.MatchString(val.String()) {
		return &ValidationError{Field: fieldName, Tag: "url", Message: fieldName + " must be a valid URL"}
	}
	return nil
}

// validateUUID delegates to google/uuid's parser — the same dependency
// adapter.Bridge uses for request-ID stamping — rather than a hand-rolled
// pattern.
func validateUUID(fieldName string, val reflect.Value, _ string) *ValidationError {
	if val.Kind() != reflect.String || val.String() == "" {
		return nil
	}
	if err := uuid.Validate(val.String()); err != nil {
		return &ValidationError{Field: fieldName, Tag: "uuid", Message: fieldName + " must be a valid UUID"}
	}
	return nil
}

func validateOneOf(fieldName string, val reflect.Value, param string) *ValidationError {
	if val.Kind() != reflect.String || val.String() == "" {
		return nil
	}
	allowed := strings.Split(param, " ")
	for _, a := range allowed {
		if val.String() == a {
			return nil
		}
	}
	return &ValidationError{
		Field: fieldName, Tag: "oneof", Value: param,
		Message: fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(allowed, ", ")),
	}
}

func validatePattern(fieldName string, val reflect.Value, param string) *ValidationError {
	if val.Kind() != reflect.String || val.String() == "" {
		return nil
	}
	matched, err := regexp.MatchString(param, val.String())
	if err != nil || !matched {
		return &ValidationError{Field: fieldName, Tag: "pattern", Value: param, Message: fieldName + " format is invalid"}
	}
	return nil
}

// numericValue reports val's value as a float64 for int/uint/float kinds.
func numericValue(val reflect.Value) (float64, bool) {
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(val.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(val.Uint()), true
	case reflect.Float32, reflect.Float64:
		return val.Float(), true
	default:
		return 0, false
	}
}

// sizeOrValue reports a length for strings/collections and a numeric
// value otherwise — the two axes min/max both constrain.
func sizeOrValue(val reflect.Value) (float64, bool) {
	switch val.Kind() {
	case reflect.String:
		return float64(len(val.String())), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return float64(val.Len()), true
	default:
		return numericValue(val)
	}
}

func isEmpty(val reflect.Value) bool {
	switch val.Kind() {
	case reflect.String:
		return val.String() == ""
	case reflect.Array, reflect.Slice, reflect.Map:
		return val.Len() == 0
	case reflect.Bool:
		return !val.Bool()
	case reflect.Interface, reflect.Ptr:
		return val.IsNil()
	default:
		if v, ok := numericValue(val); ok {
			return v == 0
		}
		return reflect.DeepEqual(val.Interface(), reflect.Zero(val.Type()).Interface())
	}
}
