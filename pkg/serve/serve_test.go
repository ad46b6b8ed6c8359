package serve_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andrew-torda/cifview/pdb"
	"github.com/andrew-torda/cifview/pdb/cmmn"
	"github.com/andrew-torda/cifview/pdb/mmcif"
	"github.com/andrew-torda/cifview/pkg/serve"
)

// fakeSource answers from a map. Anything not there gets err.
type fakeSource struct {
	data  map[string]*cmmn.ProteinData
	fasta string
	err   error
}

func (f *fakeSource) FetchStructure(_ context.Context, id string) (*cmmn.ProteinData, error) {
	if id == "BOOM" {
		panic("boom")
	}
	if pd, ok := f.data[strings.ToUpper(id)]; ok {
		return pd, nil
	}
	return nil, f.err
}

func (f *fakeSource) FetchFasta(_ context.Context, id string) (string, error) {
	if f.fasta == "" {
		return "", f.err
	}
	return f.fasta, nil
}

func quiet() *slog.Logger { return slog.New(slog.DiscardHandler) }

func twoAtoms() *cmmn.ProteinData {
	return &cmmn.ProteinData{
		Coordinates: []cmmn.Coordinate{
			{Element: "C", X: -1, Y: 0, Z: 0},
			{Element: "O", X: 3, Y: 2, Z: 0},
			{Element: "C", X: 1, Y: 1, Z: 0},
		},
		Metadata: cmmn.ProteinMetadata{Title: cmmn.Str("a title")},
	}
}

func get(t *testing.T, h http.Handler, path string) *http.Response {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Result()
}

func TestHealthz(t *testing.T) {
	srv := serve.New(&fakeSource{}, quiet())
	resp := get(t, srv.Handler(), "/healthz")
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("got %d %q", resp.StatusCode, body)
	}
}

func TestStructure(t *testing.T) {
	src := &fakeSource{data: map[string]*cmmn.ProteinData{"1ABC": twoAtoms()}, err: pdb.ErrNotFound}
	resp := get(t, serve.New(src, quiet()).Handler(), "/api/structures/1abc")
	if resp.StatusCode != http.StatusOK {
		t.Fatal("status", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Error("content type", ct)
	}
	var got serve.StructureResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "1ABC" || got.ProteinData == nil || got.NAtom() != 3 {
		t.Fatalf("got %+v", got)
	}
	if cmmn.Get(got.Metadata.Title) != "a title" || got.Metadata.Name != nil {
		t.Error("metadata", got.Metadata)
	}
	b := got.Bounds
	if b.Min != [3]float64{-1, 0, 0} || b.Max != [3]float64{3, 2, 0} || b.Centre != [3]float64{1, 1, 0} {
		t.Errorf("bounds %+v", b)
	}
	if b.Radius < 2.236 || b.Radius > 2.237 { // sqrt(5)
		t.Error("radius", b.Radius)
	}
	want := []serve.ElementCount{{Element: "C", Count: 2}, {Element: "O", Count: 1}}
	if len(got.Elements) != 2 || got.Elements[0] != want[0] || got.Elements[1] != want[1] {
		t.Error("elements", got.Elements)
	}
}

func TestStructureErrors(t *testing.T) {
	var tests = []struct {
		err    error
		status int
		kind   string
	}{
		{&pdb.FetchError{Kind: pdb.FetchNotFound, ID: "9XXX", Status: 404}, 404, "NotFound"},
		{&pdb.FetchError{Kind: pdb.FetchNetwork, ID: "9XXX", Err: io.ErrUnexpectedEOF}, 502, "Network"},
		{&pdb.FetchError{Kind: pdb.FetchBadID, ID: "toolong"}, 400, "BadID"},
		{&pdb.FetchError{Kind: pdb.FetchOther, ID: "9XXX", Status: 403}, 500, "Other"},
		{&mmcif.StructureError{Kind: mmcif.NoAtomData}, 422, "NoAtomData"},
		{fmt.Errorf("wrapped: %w", &mmcif.StructureError{Kind: mmcif.FieldCountMismatch, Expected: 21, Actual: 3}),
			422, "FieldCountMismatch"},
		{io.ErrClosedPipe, 500, "Internal"},
	}
	for _, tt := range tests {
		srv := serve.New(&fakeSource{err: tt.err}, quiet())
		resp := get(t, srv.Handler(), "/api/structures/9xxx")
		var body serve.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != tt.status || body.Kind != tt.kind || body.Error != tt.err.Error() {
			t.Errorf("%v: got %d %+v, wanted %d %s", tt.err, resp.StatusCode, body, tt.status, tt.kind)
		}
	}
}

func TestFasta(t *testing.T) {
	const fa = ">1ABC_1|Chain A|THING|nowhere\nACDE\n"
	srv := serve.New(&fakeSource{fasta: fa}, quiet())
	resp := get(t, srv.Handler(), "/api/structures/1abc/fasta")
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || string(body) != fa {
		t.Errorf("got %d %q", resp.StatusCode, body)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		t.Error("content type", resp.Header.Get("Content-Type"))
	}

	srv = serve.New(&fakeSource{err: pdb.ErrNotFound}, quiet())
	if resp := get(t, srv.Handler(), "/api/structures/1abc/fasta"); resp.StatusCode != 404 {
		t.Error("missing fasta gave", resp.StatusCode)
	}
}

func TestPanicRecovered(t *testing.T) {
	srv := serve.New(&fakeSource{}, quiet())
	if resp := get(t, srv.Handler(), "/api/structures/BOOM"); resp.StatusCode != 500 {
		t.Error("panic gave", resp.StatusCode)
	}
	if resp := get(t, srv.Handler(), "/nothing/here"); resp.StatusCode != 404 {
		t.Error("unknown path gave", resp.StatusCode)
	}
}

func TestRequestLog(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	srv := serve.New(&fakeSource{}, logger)
	get(t, srv.Handler(), "/healthz")
	s := buf.String()
	for _, want := range []string{"path=/healthz", "status=200", "request_id="} {
		if !strings.Contains(s, want) {
			t.Errorf("log %q is missing %s", s, want)
		}
	}
}

func TestListenAndServe(t *testing.T) {
	srv := serve.New(&fakeSource{}, quiet())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Error("shutdown gave", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
