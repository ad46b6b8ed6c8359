package cifview

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/pprof"
	"sort"
	"strings"
	"sync"

	"github.com/andrew-torda/cifview/pdb"
	"github.com/andrew-torda/cifview/pdb/mmcif"
)

const nWorkerDflt = 3 // Default number of reader goroutines

// ScanTotal is what one reader managed, or the sum over readers.
type ScanTotal struct {
	NFile  int
	NAtom  int
	NFail  int
	ByKind map[string]int // failures by kind of StructureError, "Other" for the rest
	Elems  map[string]int // atoms of each element over all files
}

func newScanTotal() ScanTotal {
	return ScanTotal{ByKind: make(map[string]int), Elems: make(map[string]int)}
}

func (t *ScanTotal) add(o ScanTotal) {
	t.NFile += o.NFile
	t.NAtom += o.NAtom
	t.NFail += o.NFail
	for k, v := range o.ByKind {
		t.ByKind[k] += v
	}
	for k, v := range o.Elems {
		t.Elems[k] += v
	}
}

// isCifName says if we should try to read a file
func isCifName(name string) bool {
	name = strings.ToLower(name)
	for _, sfx := range []string{".cif", ".cif.gz", ".cif.zst"} {
		if strings.HasSuffix(name, sfx) {
			return true
		}
	}
	return false
}

// failKind is the name we count a failure under
func failKind(err error) string {
	var se *mmcif.StructureError
	if errors.As(err, &se) {
		return se.Kind.String()
	}
	return "Other"
}

// readCif takes file names from a channel and decodes each one. Problems
// are logged, counted and otherwise ignored.
func readCif(env *Env, ch <-chan string, res chan<- ScanTotal, wg *sync.WaitGroup) {
	defer wg.Done()
	tot := newScanTotal()
	opts := env.Cfg.FileOptions()
	for fname := range ch {
		tot.NFile++
		pd, err := pdb.ReadStructure(fname, opts)
		if err != nil {
			env.Logger.Warn("scan", "file", fname, "err", err)
			tot.NFail++
			tot.ByKind[failKind(err)]++
			continue
		}
		env.Logger.Debug("scan", "file", fname, "natom", pd.NAtom())
		tot.NAtom += pd.NAtom()
		for _, c := range pd.Coordinates {
			tot.Elems[c.Element]++
		}
	}
	res <- tot
}

// findCif walks the tree under dir and returns the mmcif files, sorted.
func findCif(dir string, maxFile int) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isCifName(d.Name()) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	if maxFile > 0 && len(files) > maxFile {
		files = files[:maxFile]
	}
	return files, nil
}

// Scan decodes every mmcif file under dir with NWorker goroutines and
// writes a summary to w. This includes how many atoms of each element
// turned up, which is a quick way to find odd type_symbol values.
func Scan(env *Env, flags *CmdFlag, dir string, w io.Writer) (ScanTotal, error) {
	total := newScanTotal()
	files, err := findCif(dir, flags.MaxFile)
	if err != nil {
		return total, err
	}
	if flags.CPUProf != "" {
		fprof, err := os.Create(flags.CPUProf)
		if err != nil {
			return total, err
		}
		defer fprof.Close()
		if err := pprof.StartCPUProfile(fprof); err != nil {
			return total, err
		}
		defer pprof.StopCPUProfile()
	}
	nReader := flags.NWorker
	if nReader < 1 {
		nReader = nWorkerDflt
	}

	c := make(chan string, 200)
	res := make(chan ScanTotal, nReader)
	go func() {
		for _, f := range files {
			c <- f
		}
		close(c)
	}()

	var wg sync.WaitGroup
	for i := 0; i < nReader; i++ {
		wg.Add(1)
		go readCif(env, c, res, &wg)
	}
	wg.Wait()
	close(res)
	for r := range res {
		total.add(r)
	}

	fmt.Fprintf(w, "nfile %d natom %d failed %d\n", total.NFile, total.NAtom, total.NFail)
	writeCounts(w, total.ByKind)
	if len(total.Elems) > 0 {
		fmt.Fprintln(w, "elements")
		writeCounts(w, total.Elems)
	}
	return total, nil
}

// writeCounts writes a map, one entry per line, sorted by key
func writeCounts(w io.Writer, m map[string]int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s %d\n", k, m[k])
	}
}
