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

package geogrid

import (
	"math"
	"testing"
)

const testTolerance = 1.e-10

// testGrid returns a small synthetic grid with one missing sample.
func testGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(GridDef{X0: -180, Y0: 90, Dx: 90, Dy: -45, Nx: 5, Ny: 4}, "age")
	if err != nil {
		t.Fatal(err)
	}
	g.Units = "Myr"
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			g.Data.Set(float64(j*g.Nx+i)/8, j, i)
		}
	}
	g.Data.Set(math.NaN(), 2, 3)
	return g
}

func TestGlobalGridDef(t *testing.T) {
	def := GlobalGridDef(3601, 1801)
	if def.Size() != 3601*1801 {
		t.Errorf("size: %d != %d", def.Size(), 3601*1801)
	}
	cases := []struct {
		i, j     int
		lon, lat float64
	}{
		{0, 0, -180, 90},
		{3600, 1800, 180, -90},
		{1800, 900, 0, 0},
	}
	for _, c := range cases {
		if lon := def.Lon(c.i); math.Abs(lon-c.lon) > testTolerance {
			t.Errorf("lon(%d): %g != %g", c.i, lon, c.lon)
		}
		if lat := def.Lat(c.j); math.Abs(lat-c.lat) > testTolerance {
			t.Errorf("lat(%d): %g != %g", c.j, lat, c.lat)
		}
	}
}

func TestGridDefValid(t *testing.T) {
	for _, def := range []GridDef{
		{Nx: 0, Ny: 10, Dx: 1, Dy: 1},
		{Nx: 10, Ny: -1, Dx: 1, Dy: 1},
		{Nx: 10, Ny: 10, Dx: 0, Dy: 1},
	} {
		if err := def.Valid(); err == nil {
			t.Errorf("%+v: expected error", def)
		}
	}
	if err := (GridDef{Nx: 10, Ny: 10, Dx: 1, Dy: -1}).Valid(); err != nil {
		t.Error(err)
	}
}

func TestSummarize(t *testing.T) {
	g := testGrid(t)
	s := g.Summarize()
	if s.Valid != 19 || s.Missing != 1 {
		t.Fatalf("counts: valid %d missing %d", s.Valid, s.Missing)
	}
	if s.Min != 0 {
		t.Errorf("min: %g != 0", s.Min)
	}
	if s.Max != 19./8 {
		t.Errorf("max: %g != %g", s.Max, 19./8)
	}
	// The missing sample (value 13/8) must not contribute to the mean.
	wantMean := (19.*20/2 - 13) / 8 / 19
	if math.Abs(s.Mean-wantMean) > testTolerance {
		t.Errorf("mean: %g != %g", s.Mean, wantMean)
	}
}

func TestSummarizeAllMissing(t *testing.T) {
	g, err := NewGrid(GridDef{Dx: 1, Dy: 1, Nx: 2, Ny: 2}, "")
	if err != nil {
		t.Fatal(err)
	}
	for i := range g.Data.Elements {
		g.Data.Elements[i] = math.NaN()
	}
	s := g.Summarize()
	if s.Valid != 0 || s.Missing != 4 {
		t.Fatalf("counts: valid %d missing %d", s.Valid, s.Missing)
	}
	if !math.IsNaN(s.Min) || !math.IsNaN(s.Max) || !math.IsNaN(s.Mean) {
		t.Errorf("expected NaN statistics, got %+v", s)
	}
}

func TestSamePlane(t *testing.T) {
	a := testGrid(t)
	b := testGrid(t)
	if !samePlane(a.Data, b.Data) {
		t.Error("identical planes reported different")
	}
	b.Data.Set(99, 0, 0)
	if samePlane(a.Data, b.Data) {
		t.Error("different planes reported identical")
	}
}
