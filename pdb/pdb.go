// This is the upper level for reading PDB files.
// Decide if a file is compressed or not, and what format
// we are going to read. Then call the mmcif reader on the section
// with the coordinates.

package pdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/andrew-torda/cifview/pdb/cmmn"
	"github.com/andrew-torda/cifview/pdb/mmcif"
	"github.com/andrew-torda/cifview/pdb/zwrap"
	"github.com/edsrzf/mmap-go"
)

type fileFmt byte

const (
	oldFmt fileFmt = iota
	mmcifFmt
	unkFmt
)

// ErrOldFormat is returned for files in the old, fixed column PDB format.
// We only read mmcif.
var ErrOldFormat = errors.New("old PDB format is not supported, use the mmcif file")

// lookInFile opens a file and guesses if it is in old PDB format or
// in mmcif.
func lookInFile(fname string) (fileFmt, error) {
	pdbWords := []string{"HEADER", "COMPND", "SOURCE", "REMARK", "SEQRES", "HETATM", "ATOM"}
	mmcifWords := []string{"data_", "_entry.id", "loop_"}
	fp, err := os.Open(fname)
	if err != nil {
		return unkFmt, err
	}
	rdr, err := zwrap.WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return unkFmt, fmt.Errorf("reading %s: %w", fname, err)
	}
	defer rdr.Close()

	const maxTestLines = 5000
	scnnr := bufio.NewScanner(rdr)
	for i := 0; scnnr.Scan() && i < maxTestLines; i++ {
		s := scnnr.Text()
		for _, w := range mmcifWords {
			if strings.HasPrefix(s, w) {
				return mmcifFmt, nil
			}
		}
		for _, w := range pdbWords {
			if strings.HasPrefix(s, w) {
				return oldFmt, nil
			}
		}
	}
	return unkFmt, errors.New(fname + ": cannot recognise format")
}

// oldOrMmcif decides what format we will use.
// Maybe is uses the file name or maybe it peeks inside.
// We cannot use the function from filepath to get the file type,
// since it will return .gz if we feed it a.pdb.gz.
func oldOrMmcif(fname string) (fileFmt, error) {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i != -1 {
		s = strings.ToLower(s[i+1:]) // change .ent to ent
		if strings.Contains(s, "cif") {
			return mmcifFmt, nil
		} else if strings.Contains(s, "pdb") || strings.Contains(s, "ent") {
			return oldFmt, nil
		}
	}
	return lookInFile(fname)
}

// LogWhere decides where to send output. "" throws it away, "stdout" and
// "stderr" are what they say and anything else is a file we append to.
func LogWhere(dest string, level slog.Level) (*slog.Logger, error) {
	var iowriter io.Writer
	switch dest { // Decide where to send the logged output
	case "":
		return slog.New(slog.DiscardHandler), nil
	case "stdout":
		iowriter = os.Stdout
	case "stderr":
		iowriter = os.Stderr
	default:
		var err error
		iowriter, err = os.OpenFile(dest, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
	}
	h := slog.NewTextHandler(iowriter, &slog.HandlerOptions{Level: level, AddSource: true})
	return slog.New(h), nil
}

// ReadDocument returns the text of an mmcif file, compressed or not. Old
// format files are refused.
// Plain files are mapped into memory rather than read.
func ReadDocument(fname string) (string, error) {
	typ, err := oldOrMmcif(fname)
	if err != nil {
		return "", err
	}
	if typ == oldFmt {
		return "", fmt.Errorf("%s: %w", fname, ErrOldFormat)
	}
	fp, err := os.Open(fname)
	if err != nil {
		return "", err
	}
	rdr, err := zwrap.WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return "", fmt.Errorf("reading %s: %w", fname, err)
	}
	defer rdr.Close()
	if rdr.Format != zwrap.Plain {
		b, err := io.ReadAll(rdr)
		if err != nil {
			return "", fmt.Errorf("decompressing %s: %w", fname, err)
		}
		return string(b), nil
	}
	return mapFile(fp)
}

// mapFile maps the whole of fp. Empty files cannot be mapped, but they
// are easy to read.
func mapFile(fp *os.File) (string, error) {
	info, err := fp.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() == 0 {
		return "", nil
	}
	m, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return "", fmt.Errorf("mapping %s: %w", fp.Name(), err)
	}
	doc := string(m)
	if err := m.Unmap(); err != nil {
		return "", err
	}
	return doc, nil
}

// FileOptions says how to find the coordinates in a file.
type FileOptions struct {
	MinSections     int // fewer # separated sections than this is an error. 0 turns off the check
	AtomSiteSection int // which section has the atom_site loop. -1 means look for it
}

// DefaultFileOptions are right for files from the PDB.
func DefaultFileOptions() FileOptions {
	return FileOptions{MinSections: mmcif.MinSections, AtomSiteSection: -1}
}

// ReadStructure reads an mmcif file, picks out the section with the
// atom_site loop and decodes it. Errors from the decoder are
// *mmcif.StructureError.
func ReadStructure(fname string, opts FileOptions) (*cmmn.ProteinData, error) {
	doc, err := ReadDocument(fname)
	if err != nil {
		return nil, err
	}
	return mmcif.DecodeSection(doc, opts.MinSections, opts.AtomSiteSection)
}

// ReadFile is ReadStructure without sections. The whole document is
// searched for the atom_site loop.
func ReadFile(fname string) (*cmmn.ProteinData, error) {
	doc, err := ReadDocument(fname)
	if err != nil {
		return nil, err
	}
	return mmcif.Decode(doc)
}
