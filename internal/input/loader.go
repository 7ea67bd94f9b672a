// Package input loads the intent, research and blueprint records that
// feed a decomposition analysis.
//
// Records may be JSON or YAML. Any read or parse failure is fatal and
// wraps ErrInvalidInput: scoring never runs on partially decoded data.
package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/HendryAvila/partwise/internal/decomposition"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrInvalidInput marks input records that could not be read or parsed.
var ErrInvalidInput = errors.New("invalid input")

// Format is the serialization of an input record.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from the file extension. Anything that is
// not .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// MaxFeatureNameLength bounds the feature label carried into results.
const MaxFeatureNameLength = 200

// Request names the files for one analysis run.
type Request struct {
	IntentPath    string `validate:"required"`
	ResearchPath  string `validate:"required"`
	BlueprintPath string
	FeatureName   string `validate:"max=200"`
}

// validate is a singleton validator instance.
var validate = validator.New()

// Loader reads input records from an afero.Fs.
// Use afero.NewOsFs() for real files and afero.NewMemMapFs() in tests.
type Loader struct {
	fs afero.Fs
}

// NewLoader creates a loader over fs.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// NewOsLoader creates a loader over the operating system filesystem.
func NewOsLoader() *Loader {
	return NewLoader(afero.NewOsFs())
}

// Load reads and decodes every file named by req.
func (l *Loader) Load(req Request) (decomposition.Input, error) {
	if err := validateRequest(req); err != nil {
		return decomposition.Input{}, err
	}

	in := decomposition.Input{FeatureName: strings.TrimSpace(req.FeatureName)}

	if err := l.readRecord("intent", req.IntentPath, &in.Intent); err != nil {
		return decomposition.Input{}, err
	}
	if err := l.readRecord("research", req.ResearchPath, &in.Research); err != nil {
		return decomposition.Input{}, err
	}
	if req.BlueprintPath != "" {
		data, err := l.read("selected architecture", req.BlueprintPath)
		if err != nil {
			return decomposition.Input{}, err
		}
		bp, err := DecodeBlueprint(data, FormatFor(req.BlueprintPath))
		if err != nil {
			return decomposition.Input{}, err
		}
		in.Blueprint = bp
	}
	return in, nil
}

func (l *Loader) read(label, path string) ([]byte, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s file: %w", ErrInvalidInput, label, err)
	}
	return data, nil
}

func (l *Loader) readRecord(label, path string, v any) error {
	data, err := l.read(label, path)
	if err != nil {
		return err
	}
	if err := Decode(data, FormatFor(path), v); err != nil {
		return fmt.Errorf("%s file %s: %w", label, path, err)
	}
	return nil
}

// FromJSON builds an analysis input from raw JSON strings, as received
// over MCP. blueprint may be empty.
func FromJSON(intent, research, blueprint, featureName string) (decomposition.Input, error) {
	if len(featureName) > MaxFeatureNameLength {
		return decomposition.Input{}, fmt.Errorf("%w: feature name longer than %d characters", ErrInvalidInput, MaxFeatureNameLength)
	}

	in := decomposition.Input{FeatureName: strings.TrimSpace(featureName)}
	if err := Decode([]byte(intent), FormatJSON, &in.Intent); err != nil {
		return decomposition.Input{}, fmt.Errorf("intent: %w", err)
	}
	if err := Decode([]byte(research), FormatJSON, &in.Research); err != nil {
		return decomposition.Input{}, fmt.Errorf("research: %w", err)
	}
	if strings.TrimSpace(blueprint) != "" {
		bp, err := DecodeBlueprint([]byte(blueprint), FormatJSON)
		if err != nil {
			return decomposition.Input{}, fmt.Errorf("selected architecture: %w", err)
		}
		in.Blueprint = bp
	}
	return in, nil
}

// Decode parses one record into v. The top-level value must be a
// record (object/mapping).
func Decode(data []byte, format Format, v any) error {
	record, err := decodeRecord(data, format)
	if err != nil {
		return err
	}
	if format == FormatYAML {
		// Re-encode so the tolerant JSON decoders in decomposition apply.
		if data, err = json.Marshal(record); err != nil {
			return fmt.Errorf("%w: converting yaml: %w", ErrInvalidInput, err)
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// DecodeBlueprint parses a selected architecture record. An empty
// record yields nil so setup scoring falls back to estimation.
func DecodeBlueprint(data []byte, format Format) (*decomposition.Blueprint, error) {
	record, err := decodeRecord(data, format)
	if err != nil {
		return nil, err
	}
	if len(record) == 0 {
		return nil, nil
	}
	var bp decomposition.Blueprint
	if err := Decode(data, format, &bp); err != nil {
		return nil, err
	}
	return &bp, nil
}

func decodeRecord(data []byte, format Format) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidInput)
	}

	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: parsing yaml: %w", ErrInvalidInput, err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: parsing json: %w", ErrInvalidInput, err)
		}
	}

	record, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a record at top level, got %s", ErrInvalidInput, kindOf(raw))
	}
	return record, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "record"
	default:
		return "scalar"
	}
}

func validateRequest(req Request) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}
