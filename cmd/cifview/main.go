// 19 Oct 2026

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/andrew-torda/cifview/pdb/cmmn"
	"github.com/andrew-torda/cifview/pkg/cifview"
)

const uStr = `usage: %s command [options] args
commands:
  decode [-o file] [-w] file.cif   decode a local file, write json
  fetch  [-o file] [-r] id         download a structure, write json or mmcif
  fasta  [-o file] id              list the chains of a structure
  scan   [-n workers] [-m max] dir decode every mmcif file under dir
  serve                            run the http server
every command takes -config file.yaml and -log dest
`

func usage() int {
	fmt.Fprintf(os.Stderr, uStr, path.Base(os.Args[0]))
	return cmmn.ExitUsageError
}

// mymain returns the exit code, so deferred functions get to run.
func mymain() int {
	if len(os.Args) < 2 {
		return usage()
	}
	cmd := os.Args[1]
	var flags cifview.CmdFlag
	f := flag.NewFlagSet(cmd, flag.ContinueOnError)
	f.StringVar(&flags.Config, "config", "", "yaml configuration file")
	f.StringVar(&flags.Log, "log", "", "log to stdout, stderr or a file")
	nArg := 1
	switch cmd {
	case "decode":
		f.StringVar(&flags.Outfile, "o", "", "output file name, default stdout")
		f.BoolVar(&flags.Whole, "w", false, "search the whole file, do not split into sections")
	case "fetch":
		f.StringVar(&flags.Outfile, "o", "", "output file name, default stdout")
		f.BoolVar(&flags.Raw, "r", false, "write the mmcif text as downloaded")
	case "fasta":
		f.StringVar(&flags.Outfile, "o", "", "output file name, default stdout")
	case "scan":
		f.IntVar(&flags.NWorker, "n", 3, "num reader goroutines")
		f.IntVar(&flags.MaxFile, "m", 0, "max num files to read, 0 for all")
		f.StringVar(&flags.CPUProf, "c", "", "write cpuprofile to file")
	case "serve":
		nArg = 0
	default:
		fmt.Fprintln(os.Stderr, "unknown command", cmd)
		return usage()
	}
	if err := f.Parse(os.Args[2:]); err != nil {
		return cmmn.ExitUsageError
	}
	if f.NArg() != nArg {
		fmt.Fprintf(os.Stderr, "%s expects %d argument(s), got %d\n", cmd, nArg, f.NArg())
		return usage()
	}

	env, err := cifview.Setup(&flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cmmn.ExitFailure
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "decode":
		err = cifview.Decode(env, &flags, f.Arg(0))
	case "fetch":
		err = cifview.Fetch(ctx, env, &flags, f.Arg(0))
	case "fasta":
		err = cifview.Fasta(ctx, env, &flags, f.Arg(0))
	case "scan":
		_, err = cifview.Scan(env, &flags, f.Arg(0), os.Stdout)
	case "serve":
		err = cifview.Serve(ctx, env)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cmmn.ExitFailure
	}
	return cmmn.ExitSuccess
}

func main() {
	os.Exit(mymain())
}
