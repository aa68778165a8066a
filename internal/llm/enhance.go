package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/daniel/jobtrackr/internal/db"
)

// enhancementSchema validates the model output before it is stored. A response
// that fails validation is never written back to the resume.
const enhancementSchema = `{
  "type": "object",
  "properties": {
    "sections": {
      "type": "object",
      "additionalProperties": {"type": "string"},
      "minProperties": 1
    },
    "keywords": {
      "type": "array",
      "items": {"type": "string"}
    },
    "summary": {"type": "string"}
  },
  "required": ["sections"],
  "additionalProperties": false
}`

// Enhancement is the validated output of a resume enhancement run.
type Enhancement struct {
	Sections map[string]string `json:"sections"`
	Keywords []string          `json:"keywords"`
	Summary  string            `json:"summary"`
}

// Enhancer rewrites resume sections against a target role.
type Enhancer struct {
	client Client
	tier   ModelTier
	schema *gojsonschema.Schema
}

// NewEnhancer creates an enhancer using the standard model tier.
func NewEnhancer(client Client) (*Enhancer, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(enhancementSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile enhancement schema: %w", err)
	}
	return &Enhancer{
		client: client,
		tier:   TierStandard,
		schema: schema,
	}, nil
}

// EnhanceResume sends the resume sections through the model and returns the
// validated rewrite.
func (e *Enhancer) EnhanceResume(ctx context.Context, resume *db.Resume) (*Enhancement, error) {
	if len(resume.Content) == 0 {
		return nil, fmt.Errorf("resume %s has no content to enhance", resume.ID)
	}

	prompt := buildEnhancePrompt(resume)
	raw, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		return nil, fmt.Errorf("failed to enhance resume: %w", err)
	}

	enhancement, err := e.parse(raw)
	if err == nil {
		return enhancement, nil
	}

	// Malformed wrapper text around an otherwise valid object is common
	// enough to warrant one salvage attempt.
	if salvaged, ok := ExtractJSONObject(raw); ok && salvaged != raw {
		if enhancement, retryErr := e.parse(salvaged); retryErr == nil {
			return enhancement, nil
		}
	}
	return nil, err
}

// parse unmarshals and schema-validates one candidate response.
func (e *Enhancer) parse(raw string) (*Enhancement, error) {
	result, err := e.schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("model output failed validation: %s", strings.Join(issues, "; "))
	}

	var enhancement Enhancement
	if err := json.Unmarshal([]byte(raw), &enhancement); err != nil {
		return nil, fmt.Errorf("failed to decode enhancement: %w", err)
	}
	return &enhancement, nil
}

// buildEnhancePrompt renders the resume sections and target role into the
// rewrite instruction.
func buildEnhancePrompt(resume *db.Resume) string {
	var sb strings.Builder

	sb.WriteString("You are an expert resume editor. Rewrite the resume sections below to be ")
	sb.WriteString("concise, achievement-oriented, and specific. Preserve all factual claims; ")
	sb.WriteString("never invent employers, dates, titles, or metrics.\n\n")

	if resume.TargetRole != nil && *resume.TargetRole != "" {
		sb.WriteString("Target role: ")
		sb.WriteString(*resume.TargetRole)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"sections\": {\"<section name>\": \"<rewritten text>\"}, // every input section, rewritten\n")
	sb.WriteString("  \"keywords\": [\"string\"], // role-relevant keywords present in the rewrite\n")
	sb.WriteString("  \"summary\": \"string\" // one-sentence note on what was changed\n")
	sb.WriteString("}\n\n")
	sb.WriteString("Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Resume sections:\n")
	names := make([]string, 0, len(resume.Content))
	for name := range resume.Content {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString("### ")
		sb.WriteString(name)
		sb.WriteString("\n")
		sb.WriteString(renderSection(resume.Content[name]))
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// renderSection flattens one free-form content value into prompt text.
func renderSection(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		lines := make([]string, 0, len(v))
		for _, item := range v {
			lines = append(lines, "- "+renderSection(item))
		}
		return strings.Join(lines, "\n")
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
