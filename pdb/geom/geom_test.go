package geom_test

import (
	"math"
	"testing"

	"github.com/andrew-torda/cifview/pdb/cmmn"
	. "github.com/andrew-torda/cifview/pdb/geom"
)

// notApproxEqual returns true if x and y are not approximately equal.
func notApproxEqual(x, y float64) bool {
	diff := math.Abs(x - y)
	if math.IsNaN(diff) {
		return true
	}
	return diff > 0.00001
}

var atoms = []cmmn.Coordinate{
	{Element: "N", X: 1, Y: 2, Z: 3},
	{Element: "C", X: -1, Y: 4, Z: 0},
	{Element: "C", X: 3, Y: 0, Z: -3},
	{Element: "O", X: 1, Y: 2, Z: 0},
	{Element: "N", X: 1, Y: 2, Z: 0},
}

// permute rotates x, y and z for tests whose answers should not change
// when we move the axes around.
func permute(c []cmmn.Coordinate) []cmmn.Coordinate {
	ret := make([]cmmn.Coordinate, len(c))
	for i, x := range c {
		ret[i] = cmmn.Coordinate{Element: x.Element, X: x.Y, Y: x.Z, Z: x.X}
	}
	return ret
}

func TestBounds(t *testing.T) {
	min, max, ok := Bounds(atoms)
	if !ok {
		t.Fatal("no bounds")
	}
	if min != [3]float64{-1, 0, -3} || max != [3]float64{3, 4, 3} {
		t.Errorf("got %v %v", min, max)
	}
	pmin, pmax, _ := Bounds(permute(atoms))
	if pmin != [3]float64{min[1], min[2], min[0]} || pmax != [3]float64{max[1], max[2], max[0]} {
		t.Errorf("permuted axes gave %v %v", pmin, pmax)
	}
	if _, _, ok := Bounds(nil); ok {
		t.Error("empty set should not have bounds")
	}
}

func TestCentre(t *testing.T) {
	c, ok := Centre(atoms)
	if !ok {
		t.Fatal("no centre")
	}
	want := [3]float64{1, 2, 0}
	for i := range c {
		if notApproxEqual(c[i], want[i]) {
			t.Errorf("centre %v want %v", c, want)
		}
	}
	if _, ok := Centre([]cmmn.Coordinate{}); ok {
		t.Error("empty set should not have a centre")
	}
	if r := Radius(atoms, c); notApproxEqual(r, math.Sqrt(4+4+9)) {
		t.Error("radius", r)
	}
}

var disttests = []struct {
	name string
	a, b [3]float64
	res  float64
}{
	{"3.8", [3]float64{3.8, 0, 0}, [3]float64{0, 0, 0}, 3.8},
	{"zero", [3]float64{1, 1, 1}, [3]float64{1, 1, 1}, 0},
	{"345", [3]float64{0, 3, 4}, [3]float64{0, 0, 0}, 5},
	{"neg", [3]float64{-1, -2, -2}, [3]float64{0, 0, 0}, 3},
}

func TestDist(t *testing.T) {
	for _, tt := range disttests {
		if d := Dist(tt.a, tt.b); notApproxEqual(d, tt.res) {
			t.Errorf("test %s got %f want %f", tt.name, d, tt.res)
		}
		if Dist(tt.a, tt.b) != Dist(tt.b, tt.a) {
			t.Errorf("test %s not symmetric", tt.name)
		}
	}
}

func TestGroupByElement(t *testing.T) {
	grps := GroupByElement(atoms)
	if len(grps) != 3 {
		t.Fatalf("wanted 3 groups, got %d", len(grps))
	}
	wantElem := []string{"N", "C", "O"}
	wantIndex := [][]int{{0, 4}, {1, 2}, {3}}
	for g, grp := range grps {
		if grp.Element != wantElem[g] {
			t.Errorf("group %d is %s, want %s", g, grp.Element, wantElem[g])
		}
		if len(grp.Index) != len(wantIndex[g]) {
			t.Fatalf("group %s has %d atoms", grp.Element, len(grp.Index))
		}
		nr, nc := grp.Pos.Size()
		if nr != len(grp.Index) || nc != 3 {
			t.Errorf("group %s matrix is %d x %d", grp.Element, nr, nc)
		}
		for row, i := range grp.Index {
			if i != wantIndex[g][row] {
				t.Errorf("group %s row %d from atom %d", grp.Element, row, i)
			}
			a := atoms[i]
			p := grp.Pos.Mat[row]
			if p[0] != float32(a.X) || p[1] != float32(a.Y) || p[2] != float32(a.Z) {
				t.Errorf("group %s row %d has %v", grp.Element, row, p)
			}
		}
	}
	if grps := GroupByElement(nil); len(grps) != 0 {
		t.Error("groups from nothing")
	}
}
