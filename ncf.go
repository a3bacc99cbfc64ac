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
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// NCFile is an open netCDF (classic CDF format) file.
type NCFile struct {
	ff   *cdf.File
	f    *os.File
	path string
}

// OpenNCF opens the netCDF file at path for reading.
func OpenNCF(path string) (*NCFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geogrid: opening netcdf file: %v", err)
	}
	ff, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("geogrid: reading netcdf header in %s: %v", path, err)
	}
	return &NCFile{ff: ff, f: f, path: path}, nil
}

// Close closes the underlying file.
func (nc *NCFile) Close() error { return nc.f.Close() }

// Dimensions returns the sizes of all dimensions declared in the
// file, keyed by name.
func (nc *NCFile) Dimensions() map[string]int {
	names := nc.ff.Header.Dimensions("")
	lengths := nc.ff.Header.Lengths("")
	dims := make(map[string]int, len(names))
	for i, n := range names {
		dims[n] = lengths[i]
	}
	return dims
}

// Variables returns the names of all variables declared in the file,
// sorted.
func (nc *NCFile) Variables() []string {
	vars := nc.ff.Header.Variables()
	sort.Strings(vars)
	return vars
}

// Shape returns the dimension lengths of the named variable. A name
// that is not declared in the file is an error, not a default.
func (nc *NCFile) Shape(name string) ([]int, error) {
	dims := nc.ff.Header.Lengths(name)
	if dims == nil {
		return nil, fmt.Errorf("geogrid: variable %s not in %s", name, nc.path)
	}
	return dims, nil
}

// VarType returns the netCDF type name of the named variable.
func (nc *NCFile) VarType(name string) (string, error) {
	switch nc.ff.Header.ZeroValue(name, 0).(type) {
	case []float64:
		return "double", nil
	case []float32:
		return "float", nil
	case []int32:
		return "int", nil
	case []int16:
		return "short", nil
	case []uint8:
		return "byte", nil
	case string:
		return "char", nil
	case nil:
		return "", fmt.Errorf("geogrid: variable %s not in %s", name, nc.path)
	}
	return "", fmt.Errorf("geogrid: variable %s has an unknown type", name)
}

// ReadVar reads the whole of the named variable, converting its
// elements to float64. Record variables are not supported.
func (nc *NCFile) ReadVar(name string) (*sparse.DenseArray, error) {
	dims, err := nc.Shape(name)
	if err != nil {
		return nil, err
	}
	if len(dims) > 0 && dims[0] == 0 {
		return nil, fmt.Errorf("geogrid: variable %s is a record variable; not supported", name)
	}
	n := 1
	for _, d := range dims {
		n *= d
	}
	r := nc.ff.Reader(name, nil, nil)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("geogrid: reading netcdf variable %s: %v", name, err)
	}
	data := sparse.ZerosDense(dims...)
	switch vals := buf.(type) {
	case []float64:
		copy(data.Elements, vals)
	case []float32:
		for i, v := range vals {
			data.Elements[i] = float64(v)
		}
	case []int32:
		for i, v := range vals {
			data.Elements[i] = float64(v)
		}
	case []int16:
		for i, v := range vals {
			data.Elements[i] = float64(v)
		}
	case []uint8:
		for i, v := range vals {
			data.Elements[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("geogrid: variable %s has an unreadable type %T", name, buf)
	}
	return data, nil
}

// ReadGridNCF reads the named value plane from the netCDF file at
// path, taking the sampling from the file's x0, y0, dx, and dy
// attributes as written by WriteNCF.
func ReadGridNCF(path, name string) (*Grid, error) {
	nc, err := OpenNCF(path)
	if err != nil {
		return nil, err
	}
	defer nc.Close()
	data, err := nc.ReadVar(name)
	if err != nil {
		return nil, err
	}
	if len(data.Shape) != 2 {
		return nil, fmt.Errorf("geogrid: variable %s has %d dimensions; expected 2",
			name, len(data.Shape))
	}
	g := &Grid{
		GridDef: GridDef{Ny: data.Shape[0], Nx: data.Shape[1]},
		Name:    name,
		Data:    data,
	}
	for attr, p := range map[string]*float64{
		"x0": &g.X0, "y0": &g.Y0, "dx": &g.Dx, "dy": &g.Dy,
	} {
		v, ok := nc.ff.Header.GetAttribute("", attr).([]float64)
		if !ok || len(v) == 0 {
			return nil, fmt.Errorf("geogrid: %s is missing the %s grid attribute", path, attr)
		}
		*p = v[0]
	}
	if u, ok := nc.ff.Header.GetAttribute(name, "units").(string); ok {
		g.Units = u
	}
	return g, nil
}

// WriteNCF writes g to a new netCDF file at path. The value plane is
// stored as float32 under g.Name (or "z"), along with float64 lon and
// lat coordinate variables and the sampling attributes needed to
// read the grid back.
func WriteNCF(path string, g *Grid) error {
	name := g.Name
	if name == "" {
		name = "z"
	}
	h := cdf.NewHeader([]string{"lat", "lon"}, []int{g.Ny, g.Nx})
	h.AddAttribute("", "comment", "GeoGrid regularly sampled grid file")
	h.AddAttribute("", "x0", []float64{g.X0})
	h.AddAttribute("", "y0", []float64{g.Y0})
	h.AddAttribute("", "dx", []float64{g.Dx})
	h.AddAttribute("", "dy", []float64{g.Dy})
	h.AddAttribute("", "data_version", Version)

	h.AddVariable("lon", []string{"lon"}, []float64{0})
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddVariable(name, []string{"lat", "lon"}, []float32{0})
	if g.Units != "" {
		h.AddAttribute(name, "units", g.Units)
	}
	h.Define()

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("geogrid: creating netcdf file: %v", err)
	}
	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		w.Close()
		return fmt.Errorf("geogrid: writing netcdf header: %v", err)
	}

	lon := make([]float64, g.Nx)
	for i := range lon {
		lon[i] = g.Lon(i)
	}
	lat := make([]float64, g.Ny)
	for j := range lat {
		lat[j] = g.Lat(j)
	}
	if err := writeNCFVar(f, "lon", lon); err != nil {
		w.Close()
		return err
	}
	if err := writeNCFVar(f, "lat", lat); err != nil {
		w.Close()
		return err
	}
	plane := make([]float32, len(g.Data.Elements))
	for i, v := range g.Data.Elements {
		plane[i] = float32(v)
	}
	if err := writeNCFVar(f, name, plane); err != nil {
		w.Close()
		return err
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		w.Close()
		return fmt.Errorf("geogrid: finishing netcdf file: %v", err)
	}
	return w.Close()
}

// writeNCFVar writes the whole of one variable to f.
func writeNCFVar(f *cdf.File, name string, values interface{}) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if _, err := w.Write(values); err != nil {
		return fmt.Errorf("geogrid: writing netcdf variable %s: %v", name, err)
	}
	return nil
}

// Fprint writes a human-readable description of the file to w: each
// dimension with its size, then each of the named variables with its
// shape and type. If names is empty, all variables are described.
// An unknown variable name is an error.
func (nc *NCFile) Fprint(w io.Writer, names []string) error {
	dims := nc.Dimensions()
	dimNames := make([]string, 0, len(dims))
	for n := range dims {
		dimNames = append(dimNames, n)
	}
	sort.Strings(dimNames)
	fmt.Fprintf(w, "%s:\ndimensions:\n", nc.path)
	for _, n := range dimNames {
		fmt.Fprintf(w, "\t%s = %d\n", n, dims[n])
	}

	if len(names) == 0 {
		names = nc.Variables()
	}
	fmt.Fprintf(w, "variables:\n")
	for _, n := range names {
		shape, err := nc.Shape(n)
		if err != nil {
			return err
		}
		typ, err := nc.VarType(n)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\t%s %s%v\n", typ, n, shape)
	}
	return nil
}
