package errors

import (
	"testing"
)

func TestValidatePresetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "twenty-foot", false},
		{"valid with spaces", "40ft high cube", false},
		{"valid unicode", "Contêiner", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", string(make([]byte, 100)), true},
		{"path traversal", "../etc", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePresetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePresetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#000000", false},
		{"#FF00aa", false},
		{"#f0a", false},
		{"", true},
		{"red", true},
		{"#12345", true},
		{"000000", true},
		{"#gggggg", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateColor("color", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"6.1", 6.1, false},
		{" 2.44 ", 2.44, false},
		{"0", 0, false},
		{"-3", -3, false},
		{"1e2", 100, false},
		{"", 0, true},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFloat("length", tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFloat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v", GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseFloat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	if v, err := ParseInt("num_items", "12"); err != nil || v != 12 {
		t.Errorf("ParseInt(12) = %v, %v", v, err)
	}
	if v, err := ParseInt("num_items", "-2"); err != nil || v != -2 {
		t.Errorf("ParseInt(-2) = %v, %v", v, err)
	}
	if _, err := ParseInt("num_items", "2.5"); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ParseInt(2.5) error = %v", err)
	}
}
