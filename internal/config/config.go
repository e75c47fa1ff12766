// Package config loads the on-disk configuration file (§1 AMBIENT STACK:
// TOML replaces the teacher's raw JSON MCPConfig loader, whose own defining
// file was not present in the retrieved teacher copy — this package
// reconstructs the same load/merge shape directly against
// github.com/BurntSushi/toml).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/codelens-dev/codelens-mcp/internal/smell"
)

// Config is the on-disk codelens.toml shape. It mirrors the teacher's
// MCPConfig fields (Workdir, a free-form native-tool option map) plus the
// thresholds §4.6.2's structural checks use, made overridable instead of
// hardcoded, since a solution's own house style may want tighter or looser
// limits than the spec's defaults.
type Config struct {
	// Workdir overrides the CLI's --workdir flag when set (teacher parity:
	// execute.go checks config.Workdir after the flag).
	Workdir string `toml:"workdir"`

	// DirectoryFilters holds gopls directoryFilters-syntax patterns
	// ("-**/node_modules,-vendor") from the file or --directory-filters.
	// They are loaded and stored only: the workspace watch, the staleness
	// scan and the solution-wide scans do not consult them.
	DirectoryFilters []string `toml:"directory_filters"`

	Smell SmellConfig `toml:"smell"`
}

// SmellConfig overrides §4.6.2's fixed thresholds table. Zero means "use the
// spec default" (DefaultConfig fills every field, so a partially-specified
// TOML file only overrides what it mentions).
type SmellConfig struct {
	LargeClassWarn        int `toml:"large_class_warn"`
	LargeClassCritical    int `toml:"large_class_critical"`
	TooManyDepsWarn       int `toml:"too_many_deps_warn"`
	TooManyDepsCritical   int `toml:"too_many_deps_critical"`
	LongParamListWarn     int `toml:"long_param_list_warn"`
	LongParamListCritical int `toml:"long_param_list_critical"`
	DeepInheritanceMax    int `toml:"deep_inheritance_max"`
	RefusedBequestMinBase int `toml:"refused_bequest_min_base_members"`
}

// DefaultConfig returns the spec's §4.6.2 threshold table, unoverridden.
func DefaultConfig() *Config {
	return &Config{
		Smell: SmellConfig{
			LargeClassWarn:        20,
			LargeClassCritical:    40,
			TooManyDepsWarn:       5,
			TooManyDepsCritical:   8,
			LongParamListWarn:     5,
			LongParamListCritical: 8,
			DeepInheritanceMax:    3,
			RefusedBequestMinBase: 3,
		},
	}
}

// Load reads and parses a codelens.toml file, filling any field the file
// omits from DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: reading %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parsing %s: %w", path, err)
	}
	fillSmellDefaults(cfg)
	return cfg, nil
}

// fillSmellDefaults restores any threshold the TOML file left at its zero
// value to the spec default, so an empty or partial [smell] section never
// silently disables a check by zeroing its threshold.
func fillSmellDefaults(cfg *Config) {
	d := DefaultConfig().Smell
	s := &cfg.Smell
	if s.LargeClassWarn == 0 {
		s.LargeClassWarn = d.LargeClassWarn
	}
	if s.LargeClassCritical == 0 {
		s.LargeClassCritical = d.LargeClassCritical
	}
	if s.TooManyDepsWarn == 0 {
		s.TooManyDepsWarn = d.TooManyDepsWarn
	}
	if s.TooManyDepsCritical == 0 {
		s.TooManyDepsCritical = d.TooManyDepsCritical
	}
	if s.LongParamListWarn == 0 {
		s.LongParamListWarn = d.LongParamListWarn
	}
	if s.LongParamListCritical == 0 {
		s.LongParamListCritical = d.LongParamListCritical
	}
	if s.DeepInheritanceMax == 0 {
		s.DeepInheritanceMax = d.DeepInheritanceMax
	}
	if s.RefusedBequestMinBase == 0 {
		s.RefusedBequestMinBase = d.RefusedBequestMinBase
	}
}

// ApplyThresholds pushes the loaded [smell] section into internal/smell's
// active threshold table. Called once at startup, before the MCP server
// starts accepting tool calls.
func (c *Config) ApplyThresholds() {
	smell.SetThresholds(smell.Thresholds{
		LargeClassWarn:        c.Smell.LargeClassWarn,
		LargeClassCritical:    c.Smell.LargeClassCritical,
		TooManyDepsWarn:       c.Smell.TooManyDepsWarn,
		TooManyDepsCritical:   c.Smell.TooManyDepsCritical,
		LongParamListWarn:     c.Smell.LongParamListWarn,
		LongParamListCritical: c.Smell.LongParamListCritical,
		DeepInheritanceMax:    c.Smell.DeepInheritanceMax,
		RefusedBequestMinBase: c.Smell.RefusedBequestMinBase,
	})
}
