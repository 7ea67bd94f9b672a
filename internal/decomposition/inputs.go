package decomposition

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Input bundles everything one analysis run consumes.
type Input struct {
	FeatureName string
	Intent      IntentData
	Research    ResearchData
	// Blueprint switches setup scoring to real file counts when non-nil.
	Blueprint *Blueprint
}

// IntentData is what the user wants built, as extracted upstream.
type IntentData struct {
	Interactions Names `json:"interactions"`
	UIComponents Names `json:"ui_components"`
	DataModels   Names `json:"data_models"`
}

// ResearchData is what documentation research found about the feature.
type ResearchData struct {
	ArchitecturePatterns Texts    `json:"architecture_patterns"`
	SetupPatterns        Text     `json:"setup_patterns"`
	TestingStrategy      Text     `json:"testing_strategy"`
	Context7Searches     Searches `json:"context7_searches"`
}

// Blueprint is the selected architecture plan with concrete file lists.
type Blueprint struct {
	FilesToCreate Names `json:"files_to_create"`
	FilesToModify Names `json:"files_to_modify"`
}

// Search is a single documentation lookup made during research.
type Search struct {
	Topic string `json:"topic"`
	Query string `json:"query,omitempty"`
}

// --- Tolerant field types ---
//
// Upstream collaborators are loose about shapes: a list field may hold
// strings or records, and free-text fields may arrive as a string, a list,
// or a record. These types accept all of them.

// labelKeys are the record keys tried, in order, when a list item is a
// record and only its identifying label is needed.
var labelKeys = []string{"name", "path", "file", "title", "topic"}

// Names is a list whose items reduce to an identifying label
// (e.g. a data model name or a file path).
type Names []string

// UnmarshalJSON accepts a list of strings or records, a single string,
// or null.
func (n *Names) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	items := asList(raw)
	out := make(Names, 0, len(items))
	for _, item := range items {
		out = append(out, itemLabel(item))
	}
	*n = out
	return nil
}

// Texts is a list whose items keep their full flattened text, so keyword
// scans see every field of record items.
type Texts []string

// UnmarshalJSON accepts a list of strings or records, a single string,
// or null.
func (t *Texts) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	items := asList(raw)
	out := make(Texts, 0, len(items))
	for _, item := range items {
		out = append(out, Flatten(item))
	}
	*t = out
	return nil
}

// Joined returns all items separated by newlines.
func (t Texts) Joined() string {
	return strings.Join(t, "\n")
}

// Text is a free-text field flattened from whatever shape it arrived in.
type Text string

// UnmarshalJSON accepts any JSON value and flattens it.
func (t *Text) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Text(Flatten(raw))
	return nil
}

// Searches is the list of documentation lookups. String items are taken
// as bare topics.
type Searches []Search

// UnmarshalJSON accepts a list of records or strings, or null.
func (s *Searches) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	items := asList(raw)
	out := make(Searches, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			out = append(out, Search{Topic: Flatten(v["topic"]), Query: Flatten(v["query"])})
		default:
			out = append(out, Search{Topic: Flatten(v)})
		}
	}
	*s = out
	return nil
}

// DistinctTopics counts unique non-empty topics.
func (s Searches) DistinctTopics() int {
	seen := make(map[string]bool, len(s))
	for _, search := range s {
		if search.Topic == "" {
			continue
		}
		seen[search.Topic] = true
	}
	return len(seen)
}

// asList normalizes a decoded JSON value into list items.
func asList(raw any) []any {
	switch v := raw.(type) {
	case nil:
		return nil
	case []any:
		return v
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []any{v}
	default:
		return []any{v}
	}
}

// itemLabel returns the identifying label of a list item.
func itemLabel(item any) string {
	if m, ok := item.(map[string]any); ok {
		for _, key := range labelKeys {
			if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return Flatten(item)
}

// Flatten renders any decoded JSON value as plain text for keyword
// scanning. Record keys are included (sorted) because they carry signal
// too, e.g. {"queue": "redis"}.
func Flatten(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := Flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s: %s", k, Flatten(x[k])))
		}
		return strings.Join(lines, "\n")
	default:
		return fmt.Sprint(x)
	}
}
