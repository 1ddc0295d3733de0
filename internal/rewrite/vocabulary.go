package rewrite

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed vocabulary.json
var defaultVocabularyJSON []byte

//go:embed vocabulary.schema.json
var vocabularySchemaJSON []byte

const vocabularySchemaURL = "mem://mindcheck/vocabulary.schema.json"

// Vocabulary is the data that drives prompting and validation: the marker
// phrases a situational line must contain, the style rules and few-shot
// examples sent to the engines, and the fallback wrapper.
type Vocabulary struct {
	System         string   `json:"system"`
	StyleRules     []string `json:"style_rules"`
	StrictRule     string   `json:"strict_rule"`
	Examples       []string `json:"examples"`
	Markers        []string `json:"markers"`
	FallbackPrefix string   `json:"fallback_prefix"`
	StripChars     string   `json:"strip_chars"`
	MinLineLength  int      `json:"min_line_length"`
	Temperature    float64  `json:"temperature"`
	MaxTokens      int      `json:"max_tokens"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(vocabularySchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse vocabulary schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(vocabularySchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add vocabulary schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(vocabularySchemaURL)
	})
	return schema, schemaErr
}

// ParseVocabulary validates data against the vocabulary schema and decodes
// it. Omitted optional fields take their defaults.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid vocabulary JSON: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("vocabulary does not match schema: %w", err)
	}

	v := &Vocabulary{
		StripChars:    "0123456789.)-–— •*",
		MinLineLength: 11,
		Temperature:   0.7,
		MaxTokens:     600,
	}
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}
	for i, m := range v.Markers {
		v.Markers[i] = strings.ToLower(m)
	}

	// The fallback wrapper must itself pass validation, or exhaustion
	// could hand back non-situational items.
	if !Situational(v)(v.FallbackPrefix + "?") {
		return nil, fmt.Errorf("fallback_prefix %q contains no marker", v.FallbackPrefix)
	}
	return v, nil
}

// LoadVocabulary reads and parses a vocabulary file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return ParseVocabulary(data)
}

// DefaultVocabulary returns a fresh copy of the embedded vocabulary.
func DefaultVocabulary() *Vocabulary {
	v, err := ParseVocabulary(defaultVocabularyJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded vocabulary is invalid: %v", err))
	}
	return v
}
