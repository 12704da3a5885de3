package faq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nhle/faqchat/internal/model"
)

// DefaultSuggestionLimit caps the suggestion list when no limit is given.
const DefaultSuggestionLimit = 10

// decodeJSON decodes body into generic JSON values, keeping numbers as
// their literal text.
func decodeJSON(body []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return data, nil
}

// ExtractAnswer pulls the answer text out of an /api/ask response body.
// The "answer" field wins over "result"; a missing or null field falls
// through to the next, and a body with neither yields the fixed fallback
// text. Only a body that is not JSON is an error.
func ExtractAnswer(body []byte) (string, error) {
	data, err := decodeJSON(body)
	if err != nil {
		return "", fmt.Errorf("decoding answer: %w", err)
	}

	obj, ok := data.(map[string]interface{})
	if !ok {
		return model.FallbackAnswerText, nil
	}

	for _, key := range []string{"answer", "result"} {
		if v, ok := obj[key]; ok && v != nil {
			return jsonText(v), nil
		}
	}

	return model.FallbackAnswerText, nil
}

// NormalizeSuggestions converts an /api/search response body into
// suggestions. The body may be an array or an object holding a "results"
// array; anything else is an empty result. Entries are strings or objects
// carrying "title", "question" or "text" (first non-empty wins). Entries
// with blank titles are dropped and at most limit are kept.
func NormalizeSuggestions(body []byte, limit int) ([]model.Suggestion, error) {
	data, err := decodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("decoding suggestions: %w", err)
	}

	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	var items []interface{}
	switch d := data.(type) {
	case []interface{}:
		items = d
	case map[string]interface{}:
		if results, ok := d["results"].([]interface{}); ok {
			items = results
		}
	}

	suggestions := make([]model.Suggestion, 0, min(len(items), limit))
	for _, item := range items {
		if len(suggestions) == limit {
			break
		}
		title := entryTitle(item)
		if strings.TrimSpace(title) == "" {
			continue
		}
		suggestions = append(suggestions, model.Suggestion{
			Title: title,
			Query: title,
		})
	}

	return suggestions, nil
}

// entryTitle returns the display title of a single search entry.
func entryTitle(item interface{}) string {
	switch it := item.(type) {
	case string:
		return it
	case map[string]interface{}:
		for _, key := range []string{"title", "question", "text"} {
			if v := it[key]; truthy(v) {
				return displayString(v)
			}
		}
	}
	return ""
}

// truthy reports whether a decoded JSON value counts as present:
// null, false, empty strings and zero numbers do not.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// displayString converts a decoded JSON value to text the way a browser
// stringifies it: arrays join their elements with commas (null elements
// become empty), objects become "[object Object]".
func displayString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []interface{}:
		parts := make([]string, len(t))
		for i, el := range t {
			parts[i] = displayString(el)
		}
		return strings.Join(parts, ",")
	case map[string]interface{}:
		return "[object Object]"
	default:
		return jsonText(t)
	}
}

// jsonText renders a decoded JSON value as display text. Strings are
// returned as-is; other values keep their JSON spelling.
func jsonText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}
