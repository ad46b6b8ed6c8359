// Package geom has the geometry a viewer needs before it can draw a
// structure. Where is it, how big is it, and which atoms go in which
// buffer.

package geom

import (
	"math"

	"github.com/andrew-torda/cifview/pdb/cmmn"
	"github.com/andrew-torda/matrix"
	"gonum.org/v1/gonum/floats"
)

// columns pulls the x, y and z values out into three slices
func columns(coords []cmmn.Coordinate) (x, y, z []float64) {
	x = make([]float64, len(coords))
	y = make([]float64, len(coords))
	z = make([]float64, len(coords))
	for i, c := range coords {
		x[i], y[i], z[i] = c.X, c.Y, c.Z
	}
	return x, y, z
}

// Bounds returns the corners of the axis aligned box around the atoms.
// ok is false if there are no atoms.
func Bounds(coords []cmmn.Coordinate) (min, max [3]float64, ok bool) {
	if len(coords) == 0 {
		return min, max, false
	}
	x, y, z := columns(coords)
	for i, v := range [3][]float64{x, y, z} {
		min[i] = floats.Min(v)
		max[i] = floats.Max(v)
	}
	return min, max, true
}

// Centre is the mean position, not the centre of the box.
func Centre(coords []cmmn.Coordinate) ([3]float64, bool) {
	var c [3]float64
	if len(coords) == 0 {
		return c, false
	}
	x, y, z := columns(coords)
	n := float64(len(coords))
	for i, v := range [3][]float64{x, y, z} {
		c[i] = floats.Sum(v) / n
	}
	return c, true
}

// Dist is the distance between two points
func Dist(a, b [3]float64) float64 {
	return floats.Distance(a[:], b[:], 2)
}

// Radius is the distance from centre to the atom furthest away. A camera
// this far back (plus a bit) sees everything.
func Radius(coords []cmmn.Coordinate, centre [3]float64) float64 {
	var r float64
	for _, c := range coords {
		r = math.Max(r, Dist(centre, [3]float64{c.X, c.Y, c.Z}))
	}
	return r
}

// ElementGroup is all the atoms of one element. Pos has one row per atom
// and three columns, in float32 since that is what goes to the graphics
// card. Index says where each row came from in the original slice.
type ElementGroup struct {
	Element string
	Index   []int
	Pos     *matrix.FMatrix2d
}

// GroupByElement sorts the atoms into one group per element. The groups
// are in the order the elements first appear.
func GroupByElement(coords []cmmn.Coordinate) []ElementGroup {
	where := make(map[string]int)
	var ret []ElementGroup
	for i, c := range coords {
		g, ok := where[c.Element]
		if !ok {
			g = len(ret)
			where[c.Element] = g
			ret = append(ret, ElementGroup{Element: c.Element})
		}
		ret[g].Index = append(ret[g].Index, i)
	}
	for g := range ret {
		grp := &ret[g]
		grp.Pos = matrix.NewFMatrix2d(len(grp.Index), 3)
		for row, i := range grp.Index {
			c := coords[i]
			grp.Pos.Mat[row][0] = float32(c.X)
			grp.Pos.Mat[row][1] = float32(c.Y)
			grp.Pos.Mat[row][2] = float32(c.Z)
		}
	}
	return ret
}
