package models

import (
	"strings"

	"github.com/pkg/errors"
)

// OutputMode selects how much the emulator reports while running.
type OutputMode int

const (
	OUTPUT_OFF OutputMode = iota
	OUTPUT_DEFAULT
	OUTPUT_DISASM
	OUTPUT_DEBUG
	OUTPUT_DUMP
)

var outputNames = []string{"off", "default", "disasm", "debug", "dump"}

func (o OutputMode) String() string {
	if o >= 0 && int(o) < len(outputNames) {
		return outputNames[o]
	}
	return "invalid"
}

// Debuggable is true for the modes in which verbose tracing may print.
func (o OutputMode) Debuggable() bool {
	return o == OUTPUT_DEBUG || o == OUTPUT_DUMP
}

func ParseOutput(name string) (OutputMode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return OUTPUT_DEFAULT, nil
	}
	for i, n := range outputNames {
		if n == name {
			return OutputMode(i), nil
		}
	}
	return 0, errors.Errorf("unknown output mode %q", name)
}

func (o OutputMode) MarshalYAML() (interface{}, error) {
	return o.String(), nil
}

func (o *OutputMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseOutput(name)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
