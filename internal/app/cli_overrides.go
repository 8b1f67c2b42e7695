package app

import (
	"strings"

	"github.com/spf13/viper"
)

// Overrides carries values from global command-line flags. Empty fields
// leave the file/env configuration untouched.
type Overrides struct {
	LogLevel    string
	LogFormat   string
	NoColor     bool
	Concurrency int
	EntityTypes []string
}

// apply sets overrides on v so they take precedence over file and env
// values and still pass through validation.
func (o Overrides) apply(v *viper.Viper) {
	if lvl := strings.TrimSpace(o.LogLevel); lvl != "" {
		v.Set("settings.log_level", strings.ToLower(lvl))
	}
	if f := strings.TrimSpace(o.LogFormat); f != "" {
		v.Set("settings.log_format", strings.ToLower(f))
	}
	if o.NoColor {
		v.Set("console.no_color", true)
	}
	if o.Concurrency != 0 {
		v.Set("settings.concurrency", o.Concurrency)
	}
	if types := parseEntityTypes(o.EntityTypes); len(types) > 0 {
		v.Set("settings.entity_types", types)
	}
}

// parseEntityTypes flattens repeated and comma-separated flag values.
func parseEntityTypes(values []string) []string {
	var out []string
	for _, v := range values {
		for _, t := range strings.Split(v, ",") {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
