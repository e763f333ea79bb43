package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", JSONFormat},
		{"j", JSONFormat},
		{"yaml", YAMLFormat},
		{"yml", YAMLFormat},
		{"y", YAMLFormat},
		{"xml", XMLFormat},
		{"x", XMLFormat},
		{"env", EnvFormat},
		{"e", EnvFormat},
		{"flags", FlagsFormat},
		{"f", FlagsFormat},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseFormat("toml"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("got %v, want ErrBadFormat", err)
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, f := range AllFormats() {
		d, err := f.MarshalText()
		if err != nil {
			t.Fatalf("%v: %v", f, err)
		}
		var back Format
		if err := back.UnmarshalText(d); err != nil {
			t.Fatalf("%s: %v", d, err)
		}
		if back != f {
			t.Errorf("round trip %v -> %s -> %v", f, d, back)
		}
	}
}

func TestFromSuffix(t *testing.T) {
	tests := []struct {
		ext  string
		want Format
	}{
		{".json", JSONFormat},
		{"json", JSONFormat},
		{".yml", YAMLFormat},
		{".env", EnvFormat},
	}
	for _, tt := range tests {
		got, err := FromSuffix(tt.ext)
		if err != nil {
			t.Errorf("FromSuffix(%q): %v", tt.ext, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FromSuffix(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
	if _, err := FromSuffix(".ini"); err == nil {
		t.Error("unknown suffix must fail")
	}
}

func TestSuffixInvertsFromSuffix(t *testing.T) {
	for _, f := range AllFormats() {
		ext := f.Suffix()
		if ext == "" {
			continue
		}
		got, err := FromSuffix(ext)
		if err != nil || got != f {
			t.Errorf("FromSuffix(%q) = %v, %v, want %v", ext, got, err, f)
		}
	}
}
