// Package toolconfig loads the vtc CLI's own tool configuration — prelude
// files and default dump formatting — distinct from VTC source text, which
// has its own lexer/grammar. An XDG-located YAML file, absence of which is
// not an error, overlaid onto documented defaults.
package toolconfig

import (
	"os"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the vtc CLI's own configuration, loaded once at startup.
type Config struct {
	// PreludeFiles are VTC source files loaded, in order, before any file
	// or text the user supplies on the command line.
	PreludeFiles []string `yaml:"preludeFiles"`
	// SortNamespacesOnDump controls serializer.Format.SortNamespaces for
	// dump/dump-selective. A pointer so an overlay can distinguish "unset"
	// from an explicit false when merged onto the default.
	SortNamespacesOnDump *bool `yaml:"sortNamespacesOnDump"`
	// FloatPrecision is the number of significant digits used when
	// rendering floats on dump; 0 means "shortest round-trippable",
	// the serializer's own default.
	FloatPrecision int `yaml:"floatPrecision"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	sortDefault := true
	return Config{
		PreludeFiles:         nil,
		SortNamespacesOnDump: &sortDefault,
		FloatPrecision:       0,
	}
}

// SortNamespaces reports the effective sort setting, defaulting to true if
// unset (which DefaultConfig never leaves unset, but a hand-built Config
// might).
func (c Config) SortNamespaces() bool {
	if c.SortNamespacesOnDump == nil {
		return true
	}
	return *c.SortNamespacesOnDump
}

// ConfigPath returns the default location of the tool config file,
// $XDG_CONFIG_HOME/vtc/config.yaml, the way aretext locates its own config
// under the "aretext" XDG subdirectory.
func ConfigPath() (string, error) {
	return xdg.ConfigFile("vtc/config.yaml")
}

// Load reads the config file at path and overlays it onto DefaultConfig.
// A missing file is not an error: the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, errors.Wrapf(err, "reading tool config %q", path)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Config{}, errors.Wrapf(err, "parsing tool config %q", path)
	}
	cfg.Apply(overlay)
	return cfg, nil
}

// Apply overlays non-zero fields of overlay onto c.
func (c *Config) Apply(overlay Config) {
	if overlay.PreludeFiles != nil {
		c.PreludeFiles = overlay.PreludeFiles
	}
	if overlay.SortNamespacesOnDump != nil {
		c.SortNamespacesOnDump = overlay.SortNamespacesOnDump
	}
	if overlay.FloatPrecision != 0 {
		c.FloatPrecision = overlay.FloatPrecision
	}
}

// LoadOrCreateConfig locates the default config path, loads it if present,
// and otherwise returns DefaultConfig without creating a file — analogous
// to app.LoadOrCreateConfig, minus the write-on-first-run step, since the
// CLI has no first-run wizard to seed a starter file with.
func LoadOrCreateConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return Load(path)
}
