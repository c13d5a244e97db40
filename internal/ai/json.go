package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON schema used to validate generated replies.
type Schema struct {
	schema *gojsonschema.Schema
}

// MustSchema compiles the provided schema document and panics when it is invalid.
// It is meant for schemas embedded at build time.
func MustSchema(document string) *Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(document))
	if err != nil {
		panic(fmt.Sprintf("compile json schema: %v", err))
	}
	return &Schema{schema: schema}
}

// Validate checks a decoded JSON document against the schema.
func (s *Schema) Validate(document any) error {
	if s == nil || s.schema == nil {
		return nil
	}

	result, err := s.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("validate against schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return errors.New(strings.Join(problems, "; "))
}

// JSONRequest describes a single structured generation call.
type JSONRequest struct {
	System string
	Prompt string
	Schema *Schema
}

// GenerateJSON asks the generator for a JSON reply, validates it and decodes it into out.
// Transport failures are returned as is; anything wrong with the reply is a *ResponseError.
// The raw reply is returned for logging.
func GenerateJSON(ctx context.Context, gen Generator, req JSONRequest, out any) (string, error) {
	if gen == nil {
		return "", errors.New("generator is not configured")
	}

	prompt := strings.TrimSpace(req.Prompt) + "\n\n" + JSONInstruction
	raw, err := gen.GenerateContent(ctx, req.System, prompt)
	if err != nil {
		return "", err
	}

	var document any
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &document); err != nil {
		return raw, &ResponseError{Reason: "malformed json", Raw: raw, Err: err}
	}

	if err := req.Schema.Validate(document); err != nil {
		return raw, &ResponseError{Reason: "schema mismatch", Raw: raw, Err: err}
	}

	if err := Decode(document, out); err != nil {
		return raw, &ResponseError{Reason: "decode", Raw: raw, Err: err}
	}

	return raw, nil
}

// Decode copies a generic JSON document into a typed value, tolerating
// loosely typed scalars such as numbers sent as strings.
func Decode(document any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(document)
}

// ExtractJSON strips code fences and surrounding prose from a generated reply.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.TrimSpace(strings.Trim(raw, "`"))

	start := strings.IndexAny(raw, "{[")
	if start < 0 {
		return raw
	}
	closing := "}"
	if raw[start] == '[' {
		closing = "]"
	}
	if end := strings.LastIndex(raw, closing); end > start {
		return raw[start : end+1]
	}
	return raw
}
