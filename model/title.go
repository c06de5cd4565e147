package model

import (
	"encoding/json"
	"strings"
)

// Stored book lists are not clean: legacy records hold a title either as
// a plain string, as an object {"title": ...}, or as a stringified object.
// Coercion happens here, at the storage boundary, and nowhere else.

// CoerceTitle flattens one stored book value to a plain title string.
func CoerceTitle(val interface{}) string {
	switch v := val.(type) {
	case map[string]interface{}:
		title, _ := v["title"].(string)
		return strings.TrimSpace(title)
	case string:
		return coerceTitleString(v)
	default:
		return ""
	}
}

func coerceTitleString(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return s
	}

	if title, ok := parseTitleObject(s); ok {
		return title
	}
	// Some rows carry python-repr objects with single quotes.
	if title, ok := parseTitleObject(strings.ReplaceAll(s, "'", `"`)); ok {
		return title
	}
	// On parse failure the value is treated as a literal title.
	return s
}

func parseTitleObject(s string) (string, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return "", false
	}
	title, _ := obj["title"].(string)
	return strings.TrimSpace(title), true
}

// NormalizeTitles flattens a raw stored book list, dropping empties.
func NormalizeTitles(raw []interface{}) []string {
	titles := make([]string, 0, len(raw))
	for _, v := range raw {
		if t := CoerceTitle(v); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// DecodeBookList decodes the stored books column into normalized titles.
// Malformed data degrades to an empty list.
func DecodeBookList(data []byte) []string {
	if len(data) == 0 {
		return []string{}
	}
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return []string{}
	}
	return NormalizeTitles(raw)
}

// EncodeBookList encodes titles for the books column.
func EncodeBookList(titles []string) []byte {
	if titles == nil {
		titles = []string{}
	}
	data, err := json.Marshal(titles)
	if err != nil {
		return []byte("[]")
	}
	return data
}
