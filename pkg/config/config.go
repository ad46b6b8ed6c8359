// Package config holds the settings for cifview. They come from a YAML
// file, laid over the defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andrew-torda/cifview/pdb"
	"github.com/andrew-torda/cifview/pdb/mmcif"
)

// Config is the whole of the configuration.
type Config struct {
	Listen          string        `yaml:"listen"`
	CachePath       string        `yaml:"cache_path"` // empty means no cache
	Mirrors         []Mirror      `yaml:"mirrors"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	FastaURL        string        `yaml:"fasta_url"`
	MinSections     int           `yaml:"min_sections"`
	AtomSiteSection int           `yaml:"atom_site_section"` // -1 means look for it
	Log             string        `yaml:"log"`               // "", stdout, stderr or a file name
	LogLevel        string        `yaml:"log_level"`
}

// Mirror is a site to download structures from.
type Mirror struct {
	Base    string `yaml:"base"`
	Suffix  string `yaml:"suffix"`
	Gzipped bool   `yaml:"gzipped"`
	Upper   bool   `yaml:"upper"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	c := &Config{
		Listen:          ":8080",
		FetchTimeout:    30 * time.Second,
		FastaURL:        pdb.DefaultFastaURL,
		MinSections:     mmcif.MinSections,
		AtomSiteSection: -1,
		Log:             "stderr",
		LogLevel:        "info",
	}
	for _, m := range pdb.DefaultMirrors() {
		c.Mirrors = append(c.Mirrors, Mirror(m))
	}
	return c
}

// LoadConfig reads and parses a YAML config file. Anything not in the
// file keeps its default value.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if len(c.Mirrors) == 0 {
		return fmt.Errorf("at least one mirror is required")
	}
	for i, m := range c.Mirrors {
		if !strings.HasPrefix(m.Base, "http://") && !strings.HasPrefix(m.Base, "https://") {
			return fmt.Errorf("mirror[%d]: base %q is not an http url", i, m.Base)
		}
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must not be negative")
	}
	if strings.Count(c.FastaURL, "%s") != 1 {
		return fmt.Errorf("fasta_url needs exactly one %%s for the id, got %q", c.FastaURL)
	}
	if c.MinSections < 0 {
		return fmt.Errorf("min_sections must not be negative")
	}
	if c.AtomSiteSection < -1 {
		return fmt.Errorf("atom_site_section must be -1 or a section index")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level turns log_level into a slog.Level
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// PdbMirrors converts the mirror list for the fetcher.
func (c *Config) PdbMirrors() []pdb.Mirror {
	ret := make([]pdb.Mirror, len(c.Mirrors))
	for i, m := range c.Mirrors {
		ret[i] = pdb.Mirror(m)
	}
	return ret
}

// FileOptions is what the file reader needs.
func (c *Config) FileOptions() pdb.FileOptions {
	return pdb.FileOptions{MinSections: c.MinSections, AtomSiteSection: c.AtomSiteSection}
}
