package progress

import (
	"reflect"
	"testing"
)

func TestNormalizeRaw(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"json null", "null", nil},
		{"json array of numbers", "[10,10,10]", []string{"10", "10", "10"}},
		{"json array of strings", `["10"," 8 ",""]`, []string{"10", "8"}},
		{"mixed array", `[12,"10",8]`, []string{"12", "10", "8"}},
		{"bare number", "10", []string{"10"}},
		{"decimal number", "7.5", []string{"7.5"}},
		{"object", `{"sets":4}`, []string{`{"sets":4}`}},
		{"encoded array", `"[10,10]"`, []string{"10", "10"}},
		{"double encoded array", `"\"[10,10]\""`, []string{"10", "10"}},
		{"encoded null", `"null"`, nil},
		{"dash separated", `"10-10-8"`, []string{"10", "10", "8"}},
		{"raw dash text", "10-10-8", []string{"10", "10", "8"}},
		{"comma text", `"10, 10, 8"`, []string{"10", "10", "8"}},
		{"multiplication shorthand", `"3x12"`, []string{"3", "12"}},
		{"slash separated words", `"max/max/max"`, []string{"max", "max", "max"}},
		{"semicolon words", `"amrap; amrap"`, []string{"amrap", "amrap"}},
		{"quoted bracket text", `"'[10;10]'"`, []string{"10", "10"}},
		{"free text no numbers", `"to failure"`, []string{"to", "failure"}},
		{"negative number kept", `"-5"`, []string{"-5"}},
		{"invalid json treated as text", "4x8 @ 60kg", []string{"4", "8", "60"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRaw([]byte(tt.raw))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeRaw(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, nil},
		{"sequence", []any{10.0, "8", " 6 "}, []string{"10", "8", "6"}},
		{"sequence with empties", []any{"", "  ", "10"}, []string{"10"}},
		{"sequence with null element", []any{nil, "10"}, []string{"10"}},
		{"number", 12.0, []string{"12"}},
		{"bool", true, []string{"true"}},
		{"object", map[string]any{"sets": 4.0}, []string{`{"sets":4}`}},
		{"string", "10,10", []string{"10", "10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

// A sequence containing nested containers cannot be mapped element-wise; it
// must degrade to number extraction instead of failing.
func TestNormalizeNestedSequenceFallsBack(t *testing.T) {
	got := NormalizeRaw([]byte(`[[10,10],"10"]`))
	want := []string{"10", "10", "10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeRaw nested = %#v, want %#v", got, want)
	}

	got = Normalize([]any{[]any{10.0, 10.0}, "10"})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize nested = %#v, want %#v", got, want)
	}
}

// Normalizing an already-normalized value must not change it.
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{`"10-10-8"`, "[10,10,10]", `"3x12"`, `"max/max"`}
	for _, raw := range inputs {
		first := NormalizeRaw([]byte(raw))
		var again []string
		for _, tok := range first {
			again = append(again, Normalize(tok)...)
		}
		if !reflect.DeepEqual(first, again) {
			t.Errorf("normalize(%q) not idempotent: %v then %v", raw, first, again)
		}
	}
}

// Normalize must be total: arbitrary hostile input never panics.
func TestNormalizeNeverPanics(t *testing.T) {
	hostile := []string{
		`"""`, `[[[`, `]]]`, `{"a":`, `''`, `"'"`, "\x00\x01", `-`, `--`, `x-`,
		`"[["10","x"]]"`, `[{"a":[1]},2]`, `'''[1,2]'''`,
	}
	for _, s := range hostile {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("NormalizeRaw(%q) panicked: %v", s, r)
				}
			}()
			NormalizeRaw([]byte(s))
			Normalize(s)
		}()
	}
}
