package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatText  = "text"
)

// OutputFlags is the output format selection shared by commands
type OutputFlags struct {
	Format  string
	allowed []string
}

// AddOutputFlags adds a validated --output/-o flag accepting formats; the
// first one is the default.
func AddOutputFlags(cmd *cobra.Command, formats ...string) *OutputFlags {
	flags := &OutputFlags{allowed: formats}
	cmd.Flags().StringVarP(&flags.Format, "output", "o", formats[0],
		fmt.Sprintf("Output format (%s)", strings.Join(formats, "|")))

	AddFlagValidation(cmd, "output", func(format string) error {
		return ValidateFormat(format, formats)
	})
	return flags
}

// Validate checks the selected format.
func (f *OutputFlags) Validate() error {
	return ValidateFormat(f.Format, f.allowed)
}

// ValidateFormat reports an unsupported format with the supported ones.
func ValidateFormat(format string, allowed []string) error {
	for _, a := range allowed {
		if strings.EqualFold(format, a) {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q, must be one of: %s", format, strings.Join(allowed, ", "))
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:       flag.Value,
		validator:   validator,
		originalSet: flag.Value.Set,
	}
}

type validatingValue struct {
	pflag.Value
	validator   func(string) error
	originalSet func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.originalSet(val)
}

// encode writes v as indented JSON or YAML.
func encode(w io.Writer, format string, v interface{}) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(v)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
