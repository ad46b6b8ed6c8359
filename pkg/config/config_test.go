package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andrew-torda/cifview/pkg/config"
)

func writeConfig(t *testing.T, s string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "cifview.yaml")
	if err := os.WriteFile(fname, []byte(s), 0o644); err != nil {
		t.Fatal(err)
	}
	return fname
}

func TestDefaults(t *testing.T) {
	c := config.DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatal("defaults do not validate", err)
	}
	if len(c.Mirrors) != 3 || c.MinSections != 71 || c.AtomSiteSection != -1 {
		t.Errorf("odd defaults %+v", c)
	}
	if opts := c.FileOptions(); opts.MinSections != 71 || opts.AtomSiteSection != -1 {
		t.Error("file options", opts)
	}
	if m := c.PdbMirrors(); m[2].Gzipped != true || !strings.HasSuffix(m[2].Suffix, ".gz") {
		t.Error("mirror conversion", m)
	}
}

func TestLoadConfig(t *testing.T) {
	fname := writeConfig(t, `
listen: ":9999"
cache_path: /tmp/cif.db
fetch_timeout: 5s
log_level: debug
mirrors:
  - base: https://example.org/cif/
    suffix: .cif.gz
    gzipped: true
`)
	c, err := config.LoadConfig(fname)
	if err != nil {
		t.Fatal(err)
	}
	if c.Listen != ":9999" || c.CachePath != "/tmp/cif.db" || c.FetchTimeout != 5*time.Second {
		t.Errorf("got %+v", c)
	}
	if len(c.Mirrors) != 1 || c.Mirrors[0].Base != "https://example.org/cif/" || !c.Mirrors[0].Gzipped {
		t.Errorf("mirrors %+v", c.Mirrors)
	}
	if c.MinSections != 71 {
		t.Error("default should survive when not in the file")
	}
	if l, _ := c.Level(); l != slog.LevelDebug {
		t.Error("level", l)
	}
}

func TestValidate(t *testing.T) {
	var tests = []struct {
		yaml string
		msg  string
	}{
		{"listen: ''\n", "listen"},
		{"mirrors: []\n", "mirror"},
		{"mirrors:\n  - base: ftp://x/\n", "mirror[0]"},
		{"fasta_url: https://x/fasta\n", "fasta_url"},
		{"min_sections: -2\n", "min_sections"},
		{"atom_site_section: -5\n", "atom_site_section"},
		{"log_level: loud\n", "log_level"},
		{"fetch_timeout: -1s\n", "fetch_timeout"},
	}
	for _, tt := range tests {
		_, err := config.LoadConfig(writeConfig(t, tt.yaml))
		if err == nil || !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("%q gave %v, wanted something about %s", tt.yaml, err, tt.msg)
		}
	}
	if _, err := config.LoadConfig(writeConfig(t, "listen: [broken\n")); err == nil {
		t.Error("broken yaml should fail")
	}
	if _, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
