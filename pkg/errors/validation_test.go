package errors

import (
	"testing"
)

func TestValidateStateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "q0", false},
		{"valid with underscore", "q_accept", false},
		{"valid unicode", "zustand", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 65)), true},
		{"space", "q 0", true},
		{"tab", "q\t0", true},
		{"comma", "q,0", true},
		{"arrow", "q->1", true},
		{"reserved start", "start", true},
		{"reserved accept upper", "ACCEPT", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidState) {
				t.Errorf("ValidateStateName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidState)
			}
		})
	}
}

func TestValidateSymbol(t *testing.T) {
	tests := []struct {
		input   rune
		wantErr bool
	}{
		{'0', false},
		{'1', false},
		{'#', false},
		{'_', false},
		{'ä', false},

		{' ', true},
		{'\n', true},
		{',', true},
		{'\x00', true},
	}

	for _, tt := range tests {
		err := ValidateSymbol(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSymbol(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateMove(t *testing.T) {
	for _, m := range []int{-1, 0, 1} {
		if err := ValidateMove(m); err != nil {
			t.Errorf("ValidateMove(%d) = %v, want nil", m, err)
		}
	}
	for _, m := range []int{-2, 2, 100} {
		if err := ValidateMove(m); err == nil {
			t.Errorf("ValidateMove(%d) = nil, want error", m)
		}
	}
}
