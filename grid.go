/*
Copyright © 2026 the GeoGrid authors.
This file is part of GeoGrid.

GeoGrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GeoGrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GeoGrid.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package geogrid handles regularly sampled longitude/latitude grid
// datasets stored in whitespace-delimited text, NumPy archive, and
// netCDF encodings.
package geogrid

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/gonum/floats"
)

// Version gives the version number of this version of GeoGrid.
const Version = "1.2.0"

// GridDef describes an even angular sampling of the globe (or a part
// of it): Nx samples in the X (longitude) direction starting at X0
// with spacing Dx, and Ny samples in the Y (latitude) direction
// starting at Y0 with spacing Dy. Coordinates are reconstructed
// analytically from the sampling rather than stored with the data.
type GridDef struct {
	X0, Y0 float64 // coordinates of the first sample [degrees]
	Dx, Dy float64 // sample spacing [degrees]
	Nx, Ny int     // number of samples in each direction
}

// GlobalGridDef returns the sampling for a global grid with nx
// samples of longitude spanning [-180, 180] and ny samples of
// latitude spanning [90, -90], inclusive of both endpoints. For
// example, a 2-arc-minute global grid is GlobalGridDef(3601, 1801).
func GlobalGridDef(nx, ny int) GridDef {
	return GridDef{
		X0: -180,
		Y0: 90,
		Dx: 360 / float64(nx-1),
		Dy: -180 / float64(ny-1),
		Nx: nx,
		Ny: ny,
	}
}

// Lon returns the longitude of sample column i.
func (d GridDef) Lon(i int) float64 { return d.X0 + float64(i)*d.Dx }

// Lat returns the latitude of sample row j.
func (d GridDef) Lat(j int) float64 { return d.Y0 + float64(j)*d.Dy }

// Size returns the total number of samples in the grid.
func (d GridDef) Size() int { return d.Nx * d.Ny }

// Valid returns an error if d does not describe a usable sampling.
func (d GridDef) Valid() error {
	if d.Nx < 1 || d.Ny < 1 {
		return fmt.Errorf("geogrid: invalid grid dimensions %d×%d", d.Nx, d.Ny)
	}
	if d.Dx == 0 || d.Dy == 0 {
		return fmt.Errorf("geogrid: invalid grid spacing dx=%g dy=%g", d.Dx, d.Dy)
	}
	return nil
}

// Grid is a regularly sampled value plane. Data has shape [Ny, Nx]
// and is stored row-major; missing samples are NaN.
type Grid struct {
	GridDef
	Name  string
	Units string
	Data  *sparse.DenseArray
}

// NewGrid allocates a zero-filled grid with sampling d.
func NewGrid(d GridDef, name string) (*Grid, error) {
	if err := d.Valid(); err != nil {
		return nil, err
	}
	return &Grid{
		GridDef: d,
		Name:    name,
		Data:    sparse.ZerosDense(d.Ny, d.Nx),
	}, nil
}

// Summary holds simple statistics about the valid (non-missing)
// samples in a grid.
type Summary struct {
	Valid, Missing int
	Min, Max, Mean float64
}

// Summarize calculates statistics for the valid samples in g. If the
// grid holds no valid samples, Min, Max, and Mean are NaN.
func (g *Grid) Summarize() Summary {
	valid := make([]float64, 0, len(g.Data.Elements))
	for _, v := range g.Data.Elements {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	s := Summary{
		Valid:   len(valid),
		Missing: len(g.Data.Elements) - len(valid),
	}
	if len(valid) == 0 {
		s.Min, s.Max, s.Mean = math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Min = floats.Min(valid)
	s.Max = floats.Max(valid)
	s.Mean = floats.Sum(valid) / float64(len(valid))
	return s
}

// gridName derives a dataset name from a file path.
func gridName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// samePlane reports whether a and b hold element-wise identical
// values, treating NaN as equal to NaN.
func samePlane(a, b *sparse.DenseArray) bool {
	if len(a.Shape) != len(b.Shape) {
		return false
	}
	for i, n := range a.Shape {
		if b.Shape[i] != n {
			return false
		}
	}
	for i, v := range a.Elements {
		w := b.Elements[i]
		if math.IsNaN(v) && math.IsNaN(w) {
			continue
		}
		if v != w {
			return false
		}
	}
	return true
}
