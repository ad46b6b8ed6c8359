// Go to a pdb website and download coordinates.
// There are three sites for structures. We try them in order until one
// gives us the file, or one tells us there is no such file.

package pdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andrew-torda/cifview/pdb/cmmn"
	"github.com/andrew-torda/cifview/pdb/mmcif"
	"github.com/andrew-torda/cifview/pdb/zwrap"
)

// FetchKind is what went wrong when getting something from the web.
type FetchKind byte

const (
	FetchNotFound FetchKind = iota + 1 // the server says there is no such entry
	FetchNetwork                       // could not talk to the server or it broke
	FetchOther                         // some other answer we cannot use
	FetchBadID                         // not a four character PDB code
)

func (k FetchKind) String() string {
	switch k {
	case FetchNotFound:
		return "NotFound"
	case FetchNetwork:
		return "Network"
	case FetchOther:
		return "Other"
	case FetchBadID:
		return "BadID"
	}
	return "FetchKind(" + strconv.Itoa(int(k)) + ")"
}

// FetchError says what happened and where. Status is the http status if
// we got that far. Err is the error from underneath, if there was one.
type FetchError struct {
	Kind   FetchKind
	ID     string
	URL    string
	Status int
	Err    error
}

// Values for errors.Is
var (
	ErrNotFound = &FetchError{Kind: FetchNotFound}
	ErrNetwork  = &FetchError{Kind: FetchNetwork}
	ErrBadID    = &FetchError{Kind: FetchBadID}
)

func (e *FetchError) Error() string {
	s := "fetching " + e.ID
	if e.URL != "" {
		s += " from " + e.URL
	}
	s += ": " + e.Kind.String()
	if e.Status != 0 {
		s += ", http status " + strconv.Itoa(e.Status)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is match on the kind alone
func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	return ok && t.Kind == e.Kind
}

// Mirror is one place to get files. The URL is Base + id + Suffix.
type Mirror struct {
	Base    string
	Suffix  string
	Gzipped bool // files come compressed
	Upper   bool // wants the id in upper case
}

func (m Mirror) URL(id string) string {
	if m.Upper {
		id = strings.ToUpper(id)
	} else {
		id = strings.ToLower(id)
	}
	return m.Base + id + m.Suffix
}

// DefaultMirrors are the RCSB, PDBe and PDBj, in that order.
func DefaultMirrors() []Mirror {
	return []Mirror{
		{Base: "https://files.rcsb.org/download/", Suffix: ".cif", Upper: true},
		{Base: "http://www.ebi.ac.uk/pdbe/entry-files/download/", Suffix: ".cif"},
		{Base: "http://ftp.pdbj.org/mmcif/", Suffix: ".cif.gz", Gzipped: true},
	}
}

// DefaultFastaURL has a %s for the id
const DefaultFastaURL = "https://www.rcsb.org/fasta/entry/%s/display"

// DefaultMaxBytes is the biggest document we accept, after decompression.
const DefaultMaxBytes = 512 * 1024 * 1024 // Bigger than the ribosome

// DocCache is somewhere to keep documents we have already downloaded.
// pdb/cache provides one.
type DocCache interface {
	Get(ctx context.Context, id string) (string, bool, error)
	Put(ctx context.Context, id, body string) error
	Delete(ctx context.Context, id string) error
}

// Fetcher gets structures from the web. The zero value works, using the
// default mirrors, http.DefaultClient and no logging.
type Fetcher struct {
	Mirrors  []Mirror
	Client   *http.Client
	Logger   *slog.Logger
	Cache    DocCache // may be nil
	FastaURL string
	MaxBytes int64 // 0 means DefaultMaxBytes
}

// NewFetcher sets a timeout on the client. Zero means no timeout.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		Mirrors:  DefaultMirrors(),
		Client:   &http.Client{Timeout: timeout},
		Logger:   logger,
		FastaURL: DefaultFastaURL,
	}
}

func (f *Fetcher) client() *http.Client {
	if f.Client == nil {
		return http.DefaultClient
	}
	return f.Client
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.Logger
}

func (f *Fetcher) maxBytes() int64 {
	if f.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return f.MaxBytes
}

func (f *Fetcher) mirrors() []Mirror {
	if len(f.Mirrors) == 0 {
		return DefaultMirrors()
	}
	return f.Mirrors
}

// ValidID says if s looks like a PDB code. Four letters or digits.
func ValidID(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

// get does one request. The error is always a *FetchError.
func (f *Fetcher) get(ctx context.Context, id, url string, gzipped bool) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{Kind: FetchOther, ID: id, URL: url, Err: err}
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return "", &FetchError{Kind: FetchNetwork, ID: id, URL: url, Err: err}
	}
	defer resp.Body.Close()

	switch sc := resp.StatusCode; {
	case sc == http.StatusNotFound || sc == http.StatusGone:
		return "", &FetchError{Kind: FetchNotFound, ID: id, URL: url, Status: sc}
	case sc >= 500:
		return "", &FetchError{Kind: FetchNetwork, ID: id, URL: url, Status: sc}
	case sc < 200 || sc > 299:
		return "", &FetchError{Kind: FetchOther, ID: id, URL: url, Status: sc}
	}

	var rdr *zwrap.FpZ
	if gzipped {
		rdr, err = zwrap.Wrap(resp.Body)
	} else {
		rdr, err = zwrap.WrapMaybe(resp.Body)
	}
	if err != nil {
		return "", &FetchError{Kind: FetchOther, ID: id, URL: url, Status: resp.StatusCode, Err: err}
	}
	defer rdr.Close()
	limit := f.maxBytes()
	b, err := io.ReadAll(io.LimitReader(rdr, limit+1))
	if err != nil {
		return "", &FetchError{Kind: FetchNetwork, ID: id, URL: url, Status: resp.StatusCode, Err: err}
	}
	if int64(len(b)) > limit {
		return "", &FetchError{Kind: FetchOther, ID: id, URL: url, Status: resp.StatusCode,
			Err: fmt.Errorf("response too large, more than %d bytes", limit)}
	}
	return string(b), nil
}

// Fetch returns the mmcif text for id. We go through the mirrors in
// order. If one says the entry does not exist, we believe it and stop.
// Otherwise we try the next one and, if they all fail, return the last
// error. Errors are *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, id string) (string, error) {
	body, _, err := f.fetch(ctx, id, true)
	return body, err
}

// fetch does the work for Fetch. cached says if the body came from the
// cache. With useCache false, the cache is filled but not read.
func (f *Fetcher) fetch(ctx context.Context, id string, useCache bool) (body string, cached bool, err error) {
	if !ValidID(id) {
		return "", false, &FetchError{Kind: FetchBadID, ID: id}
	}
	log := f.logger()
	if f.Cache != nil && useCache {
		body, ok, err := f.Cache.Get(ctx, id)
		if err != nil {
			log.Warn("cache get", "id", id, "err", err)
		} else if ok {
			log.Debug("cache hit", "id", id)
			return body, true, nil
		}
	}

	var lastErr error
	for _, m := range f.mirrors() {
		url := m.URL(id)
		start := time.Now()
		body, err := f.get(ctx, id, url, m.Gzipped)
		if err == nil {
			log.Info("fetched", "id", id, "url", url, "bytes", len(body), "elapsed", time.Since(start))
			if f.Cache != nil {
				if err := f.Cache.Put(ctx, id, body); err != nil {
					log.Warn("cache put", "id", id, "err", err)
				}
			}
			return body, false, nil
		}
		fe := err.(*FetchError)
		log.Info("fetch failed", "id", id, "url", url, "status", fe.Status, "kind", fe.Kind.String())
		lastErr = err
		if fe.Kind == FetchNotFound || ctx.Err() != nil {
			break
		}
	}
	return "", false, lastErr
}

// FetchStructure is Fetch followed by decoding. Errors are either
// *FetchError or *mmcif.StructureError. A document that does not decode
// is removed from the cache. If it came from the cache, it is
// downloaded again and the new copy decides.
func (f *Fetcher) FetchStructure(ctx context.Context, id string) (*cmmn.ProteinData, error) {
	doc, cached, err := f.fetch(ctx, id, true)
	if err != nil {
		return nil, err
	}
	pd, err := mmcif.Decode(doc)
	if err != nil && cached {
		f.forget(ctx, id, err)
		if doc, _, err = f.fetch(ctx, id, false); err != nil {
			return nil, err
		}
		pd, err = mmcif.Decode(doc)
	}
	if err != nil {
		f.forget(ctx, id, err)
		return nil, err
	}
	f.logger().Debug("decoded", "id", id, "atoms", pd.NAtom())
	return pd, nil
}

// forget drops id from the cache after its document failed to decode.
func (f *Fetcher) forget(ctx context.Context, id string, why error) {
	if f.Cache == nil {
		return
	}
	f.logger().Warn("dropping cached document", "id", id, "err", why)
	if err := f.Cache.Delete(ctx, id); err != nil {
		f.logger().Warn("cache delete", "id", id, "err", err)
	}
}

// FetchFasta gets the sequences of id from the RCSB. There is only one
// place to get them, so no mirrors.
func (f *Fetcher) FetchFasta(ctx context.Context, id string) (string, error) {
	if !ValidID(id) {
		return "", &FetchError{Kind: FetchBadID, ID: id}
	}
	tmplt := f.FastaURL
	if tmplt == "" {
		tmplt = DefaultFastaURL
	}
	url := fmt.Sprintf(tmplt, strings.ToUpper(id))
	body, err := f.get(ctx, id, url, false)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(strings.TrimSpace(body), ">") {
		return "", &FetchError{Kind: FetchNotFound, ID: id, URL: url, Status: http.StatusOK}
	}
	return body, nil
}
