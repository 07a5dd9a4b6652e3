package io

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tapegraph/pkg/tm"
)

// ParseMachineTOML decodes a TOML machine definition:
//
//	tapes = 1
//	complexity = "O(n)"
//
//	[[states]]
//	name = "q0"
//	start = true
//
//	[[transitions]]
//	from = "q0"
//	read = "1"
//	to = "q1"
//	write = "0"
//	move = "1"
func ParseMachineTOML(r io.Reader) (*MachineDef, error) {
	var d MachineDef
	md, err := toml.NewDecoder(r).Decode(&d)
	if err != nil {
		return nil, parseErr(0, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, parseErr(0, nil, "unknown toml keys %v", undecoded)
	}
	return &d, nil
}

// WriteMachineTOML encodes m as TOML.
func WriteMachineTOML(m *tm.Machine, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(DefFromMachine(m)); err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	return nil
}

// ParseMachineYAML decodes a YAML machine definition with the same fields
// as the TOML form.
func ParseMachineYAML(r io.Reader) (*MachineDef, error) {
	var d MachineDef
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, parseErr(0, err, "decode yaml")
	}
	return &d, nil
}

// WriteMachineYAML encodes m as YAML.
func WriteMachineYAML(m *tm.Machine, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(DefFromMachine(m)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
