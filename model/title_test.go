package model

import (
	"reflect"
	"testing"
)

func TestCoerceTitle(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want string
	}{
		{"plain string", "The Hobbit", "The Hobbit"},
		{"padded string", "  The Hobbit  ", "The Hobbit"},
		{"object", map[string]interface{}{"title": "Dune"}, "Dune"},
		{"object missing title", map[string]interface{}{"name": "Dune"}, ""},
		{"json repr string", `{"title": "Dune"}`, "Dune"},
		{"python repr string", `{'title': 'Dune'}`, "Dune"},
		{"unparseable braces", `{not a dict}`, `{not a dict}`},
		{"number", 42, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CoerceTitle(tc.in); got != tc.want {
				t.Errorf("CoerceTitle(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeTitles(t *testing.T) {
	raw := []interface{}{
		"The Hobbit",
		map[string]interface{}{"title": "Dune"},
		`{"title": "Neuromancer"}`,
		"",
		nil,
	}

	got := NormalizeTitles(raw)
	want := []string{"The Hobbit", "Dune", "Neuromancer"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTitles = %v, want %v", got, want)
	}
}

func TestDecodeBookList(t *testing.T) {
	got := DecodeBookList([]byte(`["A", {"title": "B"}]`))
	want := []string{"A", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeBookList = %v, want %v", got, want)
	}

	if list := DecodeBookList([]byte(`not json`)); len(list) != 0 {
		t.Errorf("malformed column should decode to empty list, got %v", list)
	}
	if list := DecodeBookList(nil); len(list) != 0 {
		t.Errorf("empty column should decode to empty list, got %v", list)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	titles := []string{"A", "B"}
	if got := DecodeBookList(EncodeBookList(titles)); !reflect.DeepEqual(got, titles) {
		t.Errorf("round trip = %v, want %v", got, titles)
	}
	if string(EncodeBookList(nil)) != "[]" {
		t.Errorf("nil list should encode as empty array")
	}
}
