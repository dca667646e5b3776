package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// UnmarshalRaw accepts json.RawMessage directly.
func UnmarshalRaw(raw json.RawMessage, v any) error {
	return UnmarshalFlex([]byte(raw), v)
}

// UnmarshalFlex unmarshals model output into v with best effort:
// 1) direct unmarshal
// 2) code-fence stripped
// 3) unicode-normalized (double-escaped sequences)
// Models occasionally wrap JSON in markdown fences or double-escape it even
// when asked for strict JSON.
func UnmarshalFlex(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err == nil {
		return nil
	}
	if stripped := StripFences(raw); !bytes.Equal(stripped, raw) {
		if err := json.Unmarshal(stripped, v); err == nil {
			return nil
		}
		raw = stripped
	}
	norm, err := normalizeUnicode(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(norm, v)
}

// StripFences removes a surrounding markdown code fence (``` or ```json) and
// any text before the first brace/bracket of the fenced block.
func StripFences(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.LastIndex(s, "```"); j >= 0 {
			s = s[:j]
		}
		s = strings.TrimSpace(s)
	}
	return []byte(s)
}

// MarshalNoEscape encodes v into JSON without escaping <, >, & into <, etc.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// normalizeUnicode parses JSON bytes and recursively unescapes double-escaped
// unicode sequences (e.g. "\\u003e") inside string values.
func normalizeUnicode(raw []byte) ([]byte, error) {
	var anyVal any
	if err := json.Unmarshal(raw, &anyVal); err != nil {
		// The entire payload may be a quoted JSON string.
		var s string
		if err2 := json.Unmarshal(raw, &s); err2 != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(s), &anyVal); err != nil {
			return nil, errors.New("jsonutil: cannot parse JSON payload")
		}
	}
	return MarshalNoEscape(deepUnescape(anyVal))
}

func unescapeUnicodeString(s string) (string, error) {
	esc := strings.ReplaceAll(s, `\`, `\\`)
	esc = strings.ReplaceAll(esc, `"`, `\"`)
	var out string
	if err := json.Unmarshal([]byte(`"`+esc+`"`), &out); err != nil {
		return "", err
	}
	return out, nil
}

func deepUnescape(v any) any {
	switch x := v.(type) {
	case string:
		if s, err := unescapeUnicodeString(x); err == nil {
			return s
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepUnescape(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = deepUnescape(vv)
		}
		return out
	default:
		return v
	}
}
