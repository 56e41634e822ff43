package config

import (
	"sfgen/pkg/coerce"
	"sfgen/pkg/parser"
)

// ValidFormats are the accepted output formats
var ValidFormats = []string{"text", "json", "yaml"}

// DefaultExcludeTypes are argument types whose functions are left out of header discovery.
var DefaultExcludeTypes = []string{"gsl_mode_t"}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Macro: parser.DefaultMacro,
		},
		Coerce: CoerceConfig{
			FloatTypes: append([]string(nil), coerce.DefaultFloatTypes...),
			IntTypes:   append([]string(nil), coerce.DefaultIntTypes...),
		},
		Headers: HeadersConfig{
			ExcludeTypes: append([]string(nil), DefaultExcludeTypes...),
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// IsValidFormat checks if an output format is supported
func IsValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Merge fills unset fields of loaded from defaults.
// A list set explicitly to empty in the file stays empty.
func Merge(loaded, defaults *Config) *Config {
	result := *loaded

	if result.Scan.Macro == "" {
		result.Scan.Macro = defaults.Scan.Macro
	}
	if result.Coerce.FloatTypes == nil {
		result.Coerce.FloatTypes = defaults.Coerce.FloatTypes
	}
	if result.Coerce.IntTypes == nil {
		result.Coerce.IntTypes = defaults.Coerce.IntTypes
	}
	if result.Headers.ExcludeTypes == nil {
		result.Headers.ExcludeTypes = defaults.Headers.ExcludeTypes
	}
	if result.Output.Format == "" {
		result.Output.Format = defaults.Output.Format
	}

	return &result
}
