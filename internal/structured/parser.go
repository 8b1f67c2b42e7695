// Package structured turns free-form model output into validated Go values.
package structured

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Parser extracts JSON documents embedded in model text and checks them
// against the struct tags of the destination type.
type Parser struct {
	validate *validator.Validate
}

func NewParser() *Parser {
	return &Parser{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Decode fills out (a pointer) from text. Each JSON document embedded in
// text is tried in order until one decodes and validates; struct targets
// only consider objects. When none fits, the first candidate's failure is
// returned as a PARSE_ERROR and out is left untouched.
func (p *Parser) Decode(text string, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return apperrors.New(apperrors.CodeInternal, "decode target must be a non-nil pointer")
	}
	target := rv.Elem().Type()

	openers := "{["
	if target.Kind() == reflect.Struct {
		openers = "{"
	}
	docs := candidates(text, openers)
	if len(docs) == 0 {
		return apperrors.New(apperrors.CodeParse, "no JSON document found in model response")
	}

	var firstErr error
	for _, raw := range docs {
		fresh := reflect.New(target)
		err := p.decodeOne(raw, fresh.Interface(), target.Kind() == reflect.Struct)
		if err == nil {
			rv.Elem().Set(fresh.Elem())
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *Parser) decodeOne(raw string, out any, validate bool) error {
	if err := json.UnmarshalFromString(raw, out); err != nil {
		return apperrors.Wrap(err, apperrors.CodeParse, "model response is not valid JSON")
	}
	if !validate {
		return nil
	}
	if err := p.validate.Struct(out); err != nil {
		return apperrors.Wrap(err, apperrors.CodeParse, "model response failed schema validation: "+describe(err))
	}
	return nil
}

// ExtractJSON returns the first well-formed JSON object or array found in
// text, ignoring surrounding prose and markdown fences.
func ExtractJSON(text string) (string, error) {
	docs := candidates(text, "{[")
	if len(docs) == 0 {
		return "", apperrors.New(apperrors.CodeParse, "no JSON document found in model response")
	}
	return docs[0], nil
}

// candidates lists every well-formed JSON document in text that starts with
// one of openers. Scanning resumes after each accepted document, so nested
// values are not reported separately.
func candidates(text, openers string) []string {
	var docs []string
	for i := 0; i < len(text); i++ {
		if !strings.ContainsRune(openers, rune(text[i])) {
			continue
		}
		end := balancedEnd(text, i)
		if end < 0 || !json.Valid([]byte(text[i:end])) {
			continue
		}
		docs = append(docs, text[i:end])
		i = end - 1
	}
	return docs
}

// balancedEnd returns the index just past the bracket closing the one at
// start, or -1 when a closer does not match its opener or text ends first.
func balancedEnd(text string, start int) int {
	stack := make([]byte, 0, 8)
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1
			}
		}
	}
	return -1
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s is %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
