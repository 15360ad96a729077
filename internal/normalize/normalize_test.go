package normalize

import (
	"reflect"
	"testing"
)

func TestStrings(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want []string
	}{
		{"json array string", `["A","B"]`, []string{"A", "B"}},
		{"comma separated", "A,B", []string{"A", "B"}},
		{"comma with spaces", "A, B , C", []string{"A", "B", "C"}},
		{"plain string", "A", []string{"A"}},
		{"empty string", "", []string{}},
		{"absent", nil, []string{}},
		{"whitespace only", "   ", []string{}},
		{"json array of numbers", `[1,2]`, []string{"1", "2"}},
		{"json array of objects", `[{"k":"v"}]`, []string{`{"k":"v"}`}},
		{"scalar json number string", "5", []string{"5"}},
		{"already a slice", []any{"A", "B"}, []string{"A", "B"}},
		{"string slice", []string{"A"}, []string{"A"}},
		{"empty json array", "[]", []string{}},
		{"json object with comma", `{"a":1,"b":2}`, []string{`{"a":1,"b":2}`}},
		{"quoted json string with comma", `"A, B"`, []string{`"A, B"`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Strings(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Strings(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

// Нормализация должна быть идемпотентной: прогон уже нормализованного
// значения через Strings обязан дать тот же список.
func TestStringsIdempotent(t *testing.T) {
	inputs := []any{`["A","B"]`, "A,B", "A", ""}
	for _, in := range inputs {
		first := Strings(in)
		second := Strings(any(first))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("normalization not idempotent for %v: %v then %v", in, first, second)
		}
	}
}

func TestText(t *testing.T) {
	r := Result{"answer": "", "text": "hello", "message": "fallback"}
	if got := Text(r, "answer", "text", "message"); got != "hello" {
		t.Errorf("Text = %q, want %q", got, "hello")
	}
	if got := Text(r, "missing"); got != "" {
		t.Errorf("Text on missing key = %q, want empty", got)
	}
	if got := Text(nil, "answer"); got != "" {
		t.Errorf("Text on nil result = %q, want empty", got)
	}
}

func TestDecision(t *testing.T) {
	r := Result{"decision": "APPROVE", "risk_score": float64(82)}
	if got := Decision(r, "decision"); got != "APPROVE" {
		t.Errorf("Decision = %q, want APPROVE", got)
	}
	if got := Decision(r, "decision_label", "verdict"); got != "N/A" {
		t.Errorf("Decision fallback = %q, want N/A", got)
	}
	if got := Decision(r, "risk_score"); got != "82" {
		t.Errorf("Decision numeric = %q, want 82", got)
	}
}

func TestNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{float64(82), 82},
		{"70", 70},
		{" 12.5 ", 12.5},
		{"not a number", 0},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := Number(tc.in); got != tc.want {
			t.Errorf("Number(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestStringify(t *testing.T) {
	if got := Stringify(float64(5000000000)); got != "5000000000" {
		t.Errorf("Stringify big int = %q", got)
	}
	if got := Stringify(12.75); got != "12.75" {
		t.Errorf("Stringify float = %q", got)
	}
	if got := Stringify(map[string]any{"a": "b"}); got != `{"a":"b"}` {
		t.Errorf("Stringify object = %q", got)
	}
}
