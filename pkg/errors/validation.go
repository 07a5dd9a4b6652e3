package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// reservedStateNames cannot be used as state names because the machine
// text format uses them as state flags.
var reservedStateNames = map[string]bool{
	"start":  true,
	"accept": true,
}

// ValidateStateName validates a Turing machine state name.
//
// The validation rules keep names representable in the machine text format:
//   - No empty names
//   - No whitespace or control characters
//   - No commas or arrows (used as field separators)
//   - Not one of the flag words "start" and "accept"
//   - Maximum length of 64 characters
func ValidateStateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidState, "state name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidState, "state name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidState, "state name %q contains whitespace or control characters", name)
		}
	}

	if strings.Contains(name, ",") || strings.Contains(name, "->") {
		return New(ErrCodeInvalidState, "state name %q contains a reserved separator", name)
	}

	if reservedStateNames[strings.ToLower(name)] {
		return New(ErrCodeInvalidState, "state name %q is reserved", name)
	}

	return nil
}

// ValidateSymbol validates a single tape symbol.
// Symbols must be printable, non-space runes other than the tuple separator ','.
func ValidateSymbol(r rune) error {
	if r == utf8.RuneError {
		return New(ErrCodeInvalidSymbol, "invalid UTF-8 symbol")
	}
	if !unicode.IsPrint(r) || unicode.IsSpace(r) {
		return New(ErrCodeInvalidSymbol, "symbol %q is not printable", r)
	}
	if r == ',' {
		return New(ErrCodeInvalidSymbol, "symbol ',' is reserved as the tuple separator")
	}
	return nil
}

// ValidateMove validates a head move offset. Only -1, 0 and +1 are allowed.
func ValidateMove(m int) error {
	if m < -1 || m > 1 {
		return New(ErrCodeInvalidInput, "move offset %d out of range (want -1, 0 or 1)", m)
	}
	return nil
}
