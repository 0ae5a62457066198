package ez

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// BindMessages turns binding errors into client-facing messages such as
// "Name is required" or "Invalid value for status".
func BindMessages(err error) []string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldMessage(fe))
		}
		return msgs
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return []string{capitalize(te.Field) + " must be a " + typeName(te.Type)}
	}
	var se *json.SyntaxError
	if errors.As(err, &se) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []string{"Malformed JSON body"}
	}
	if errors.Is(err, io.EOF) {
		return []string{"Request body is required"}
	}
	return []string{err.Error()}
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "oneof":
		return "Invalid value for " + strings.ToLower(name)
	case "max":
		return name + " must be at most " + fe.Param() + " characters"
	}
	return name + " is invalid"
}

func typeName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "valid value"
	}
	switch t.Kind() {
	case reflect.String:
		return "String"
	case reflect.Bool:
		return "Boolean"
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Float64:
		return "Number"
	}
	return "valid value"
}

func capitalize(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	if s == "" {
		return "Field"
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
