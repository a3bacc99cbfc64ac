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
	"archive/zip"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ctessum/sparse"
)

// An npz archive is a zip file whose members are NumPy arrays, each
// stored under "<name>.npy".

// NPZMembers returns the names of the arrays stored in the archive at
// path, sorted.
func NPZMembers(path string) ([]string, error) {
	z, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("geogrid: opening npz archive: %v", err)
	}
	defer z.Close()
	var names []string
	for _, f := range z.File {
		names = append(names, strings.TrimSuffix(f.Name, ".npy"))
	}
	sort.Strings(names)
	return names, nil
}

// ReadNPZ reads the named array from the archive at path. An unknown
// member name is an error listing the members that are present.
func ReadNPZ(path, member string) (*sparse.DenseArray, error) {
	z, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("geogrid: opening npz archive: %v", err)
	}
	defer z.Close()
	for _, f := range z.File {
		if f.Name != member+".npy" && f.Name != member {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("geogrid: opening npz member %s: %v", member, err)
		}
		data, err := readNPY(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("geogrid: npz member %s: %v", member, err)
		}
		return data, nil
	}
	var names []string
	for _, f := range z.File {
		names = append(names, strings.TrimSuffix(f.Name, ".npy"))
	}
	sort.Strings(names)
	return nil, fmt.Errorf("geogrid: npz archive %s has no member %s (members: %s)",
		path, member, strings.Join(names, ", "))
}

// ReadGridNPZ reads the named value plane from the archive at path
// and attaches the sampling def to it. The stored shape must be
// [def.Ny, def.Nx].
func ReadGridNPZ(path, member string, def GridDef) (*Grid, error) {
	if err := def.Valid(); err != nil {
		return nil, err
	}
	data, err := ReadNPZ(path, member)
	if err != nil {
		return nil, err
	}
	if len(data.Shape) != 2 || data.Shape[0] != def.Ny || data.Shape[1] != def.Nx {
		return nil, fmt.Errorf("geogrid: npz member %s has shape %v; expected [%d %d]",
			member, data.Shape, def.Ny, def.Nx)
	}
	return &Grid{GridDef: def, Name: member, Data: data}, nil
}

// WriteNPZ writes the given arrays to a new archive at path, one
// member per array. Members are deflate-compressed when compress is
// true and stored uncompressed otherwise. Members are written in
// sorted name order so the archive is reproducible.
func WriteNPZ(path string, compress bool, arrays map[string]*sparse.DenseArray) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("geogrid: creating npz archive: %v", err)
	}
	z := zip.NewWriter(f)

	names := make([]string, 0, len(arrays))
	for n := range arrays {
		names = append(names, n)
	}
	sort.Strings(names)

	method := zip.Store
	if compress {
		method = zip.Deflate
	}
	for _, n := range names {
		w, err := z.CreateHeader(&zip.FileHeader{
			Name:   n + ".npy",
			Method: method,
		})
		if err != nil {
			f.Close()
			return fmt.Errorf("geogrid: creating npz member %s: %v", n, err)
		}
		if err := writeNPY(w, arrays[n]); err != nil {
			f.Close()
			return err
		}
	}
	if err := z.Close(); err != nil {
		f.Close()
		return fmt.Errorf("geogrid: finishing npz archive: %v", err)
	}
	return f.Close()
}

// WriteGridNPZ stores the value plane of g as the single member of a
// new compressed archive at path, under g.Name (or "z" if the grid is
// unnamed).
func WriteGridNPZ(path string, g *Grid) error {
	name := g.Name
	if name == "" {
		name = "z"
	}
	return WriteNPZ(path, true, map[string]*sparse.DenseArray{name: g.Data})
}
