// 19 Oct 2026
// cifview does the work behind the cifview command. Each subcommand has
// a function here. cmd/cifview only parses the command line.

package cifview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/andrew-torda/cifview/pdb"
	"github.com/andrew-torda/cifview/pdb/cache"
	"github.com/andrew-torda/cifview/pdb/cmmn"
	"github.com/andrew-torda/cifview/pdb/fasta"
	"github.com/andrew-torda/cifview/pdb/mmcif"
	"github.com/andrew-torda/cifview/pkg/config"
	"github.com/andrew-torda/cifview/pkg/serve"
)

// CmdFlag is the command line flags after parsing. Not every
// subcommand looks at every field.
type CmdFlag struct {
	Config  string // yaml file. Empty means defaults
	Log     string // overrides the config's log destination if set
	Outfile string // "" or "-" is stdout
	Whole   bool   // decode: ignore sections and search the whole document
	Raw     bool   // fetch: write the mmcif text, not json
	NWorker int    // scan: number of reader goroutines
	MaxFile int    // scan: stop after this many files. 0 means all
	CPUProf string // scan: write a cpu profile here
}

// Env is what every subcommand starts from.
type Env struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// Setup reads the config, if there is one, and builds the logger.
func Setup(flags *CmdFlag) (*Env, error) {
	cfg := config.DefaultConfig()
	if flags.Config != "" {
		var err error
		if cfg, err = config.LoadConfig(flags.Config); err != nil {
			return nil, err
		}
	}
	if flags.Log != "" {
		cfg.Log = flags.Log
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	logger, err := pdb.LogWhere(cfg.Log, level)
	if err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}
	return &Env{Cfg: cfg, Logger: logger}, nil
}

// NewFetcher builds a fetcher from the config. If the config names a
// cache, it is opened and the returned close function shuts it.
func (env *Env) NewFetcher() (*pdb.Fetcher, func() error, error) {
	f := pdb.NewFetcher(env.Cfg.FetchTimeout, env.Logger)
	f.Mirrors = env.Cfg.PdbMirrors()
	f.FastaURL = env.Cfg.FastaURL
	if env.Cfg.CachePath == "" {
		return f, func() error { return nil }, nil
	}
	c, err := cache.Open(env.Cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}
	f.Cache = c
	return f, c.Close, nil
}

// withOutput calls fn with the output file, or stdout.
func withOutput(outfile string, fn func(io.Writer) error) (err error) {
	if outfile == "" || outfile == "-" {
		return fn(os.Stdout)
	}
	fp, err := os.Create(outfile)
	if err != nil {
		return fmt.Errorf("file for output: %w", err)
	}
	defer func() {
		if cerr := fp.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(fp)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// idFromFile guesses a PDB code from a name like /x/1abc.cif.gz
func idFromFile(fname string) string {
	base := fname[strings.LastIndexAny(fname, `/\`)+1:]
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base
}

// Decode reads a local file and writes it as json, in the same form the
// server hands out.
func Decode(env *Env, flags *CmdFlag, fname string) error {
	var pd *cmmn.ProteinData
	var err error
	if flags.Whole {
		pd, err = pdb.ReadFile(fname)
	} else {
		pd, err = pdb.ReadStructure(fname, env.Cfg.FileOptions())
	}
	if err != nil {
		return err
	}
	env.Logger.Info("decoded", "file", fname, "natom", pd.NAtom())
	resp := serve.NewStructureResponse(idFromFile(fname), pd)
	return withOutput(flags.Outfile, func(w io.Writer) error { return writeJSON(w, resp) })
}

// Fetch downloads a structure. With Raw, the text is written as it
// came. Otherwise the whole document is decoded, as the server does,
// and written as json.
func Fetch(ctx context.Context, env *Env, flags *CmdFlag, id string) error {
	f, closer, err := env.NewFetcher()
	if err != nil {
		return err
	}
	defer closer()
	doc, err := f.Fetch(ctx, id)
	if err != nil {
		return err
	}
	if flags.Raw {
		return withOutput(flags.Outfile, func(w io.Writer) error {
			_, err := io.WriteString(w, doc)
			return err
		})
	}
	pd, err := mmcif.Decode(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	resp := serve.NewStructureResponse(id, pd)
	return withOutput(flags.Outfile, func(w io.Writer) error { return writeJSON(w, resp) })
}

// Fasta gets the sequences for id and writes one line per entity with
// the chains, the length and the name, separated by tabs.
func Fasta(ctx context.Context, env *Env, flags *CmdFlag, id string) error {
	f, closer, err := env.NewFetcher()
	if err != nil {
		return err
	}
	defer closer()
	txt, err := f.FetchFasta(ctx, id)
	if err != nil {
		return err
	}
	seqs, err := fasta.Read(strings.NewReader(txt))
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	return withOutput(flags.Outfile, func(w io.Writer) error {
		for _, s := range seqs {
			if _, err := fmt.Fprintf(w, "%s\t%d\t%s\n", s.Chains(), s.Len(), s.Name()); err != nil {
				return err
			}
		}
		return nil
	})
}

// Serve runs the http server until ctx is cancelled.
func Serve(ctx context.Context, env *Env) error {
	f, closer, err := env.NewFetcher()
	if err != nil {
		return err
	}
	srv := serve.New(f, env.Logger)
	err = srv.ListenAndServe(ctx, env.Cfg.Listen)
	return errors.Join(err, closer())
}
