package memory

import "testing"

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		tok  string
		kind ValueKind
		str  string
	}{
		{"42", ValueInt, "42"},
		{"-7", ValueInt, "-7"},
		{"0", ValueInt, "0"},
		{"3.14", ValueFloat, "3.14"},
		{"1e3", ValueFloat, "1000"},
		{`"hello"`, ValueString, `"hello"`},
		{"'c'", ValueString, `"c"`},
		{"flag", ValueText, "flag"},
		{"", ValueNone, ""},
	}
	for _, tt := range tests {
		v := ParseLiteral(tt.tok)
		if v.Kind() != tt.kind {
			t.Errorf("ParseLiteral(%q).Kind() = %v, want %v", tt.tok, v.Kind(), tt.kind)
		}
		if v.String() != tt.str {
			t.Errorf("ParseLiteral(%q).String() = %q, want %q", tt.tok, v.String(), tt.str)
		}
	}
}

func TestValueAccessors(t *testing.T) {
	if i, ok := IntValue(5).Int(); !ok || i != 5 {
		t.Errorf("IntValue(5).Int() = %d, %v", i, ok)
	}
	if _, ok := IntValue(5).Float(); ok {
		t.Error("IntValue should not report a float")
	}
	if f, ok := FloatValue(2.5).Float(); !ok || f != 2.5 {
		t.Errorf("FloatValue(2.5).Float() = %g, %v", f, ok)
	}
	if !(Value{}).IsZero() {
		t.Error("zero Value should report IsZero")
	}
	if IntValue(0).IsZero() {
		t.Error("IntValue(0) is a known value, not zero")
	}
}
