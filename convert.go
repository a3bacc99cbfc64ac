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
	"path/filepath"
	"strings"
)

// Format identifies one of the grid encodings.
type Format string

const (
	FormatXYZ Format = "xyz" // whitespace-delimited text
	FormatNPZ Format = "npz" // zip archive of NumPy arrays
	FormatNCF Format = "ncf" // netCDF classic
)

// FormatForPath infers the encoding of the file at path from its
// extension: .xyz and .txt are text, .npz is the NumPy archive, and
// .nc is netCDF.
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xyz", ".txt":
		return FormatXYZ, nil
	case ".npz":
		return FormatNPZ, nil
	case ".nc", ".cdf":
		return FormatNCF, nil
	default:
		return "", fmt.Errorf("geogrid: cannot infer a grid format from %q", path)
	}
}

// ReadGrid reads a grid from the file at path in the given format.
// The sampling def is required for the text and archive encodings,
// which do not carry it; the netCDF encoding is self-describing and
// ignores def. member names the array to read from archive and
// netCDF files; if empty, it defaults to the file's base name for
// archives and must be supplied for netCDF files with more than one
// non-coordinate variable.
func ReadGrid(path string, format Format, def GridDef, member string) (*Grid, error) {
	switch format {
	case FormatXYZ:
		return ReadXYZFile(path, def)
	case FormatNPZ:
		if member == "" {
			members, err := NPZMembers(path)
			if err != nil {
				return nil, err
			}
			if len(members) != 1 {
				return nil, fmt.Errorf("geogrid: %s has %d members; name one of them", path, len(members))
			}
			member = members[0]
		}
		return ReadGridNPZ(path, member, def)
	case FormatNCF:
		if member == "" {
			name, err := soleDataVar(path)
			if err != nil {
				return nil, err
			}
			member = name
		}
		return ReadGridNCF(path, member)
	default:
		return nil, fmt.Errorf("geogrid: unknown grid format %q", format)
	}
}

// soleDataVar returns the name of the only non-coordinate variable in
// the netCDF file at path.
func soleDataVar(path string) (string, error) {
	nc, err := OpenNCF(path)
	if err != nil {
		return "", err
	}
	defer nc.Close()
	dims := nc.Dimensions()
	var names []string
	for _, v := range nc.Variables() {
		if _, isCoord := dims[v]; !isCoord {
			names = append(names, v)
		}
	}
	if len(names) != 1 {
		return "", fmt.Errorf("geogrid: %s has %d data variables; name one of them", path, len(names))
	}
	return names[0], nil
}

// WriteGrid writes g to the file at path in the given format.
func WriteGrid(path string, format Format, g *Grid) error {
	switch format {
	case FormatXYZ:
		return WriteXYZFile(path, g)
	case FormatNPZ:
		return WriteGridNPZ(path, g)
	case FormatNCF:
		return WriteNCF(path, g)
	default:
		return fmt.Errorf("geogrid: unknown grid format %q", format)
	}
}

// Convert reads the grid at inPath and rewrites it at outPath,
// inferring both encodings from the file extensions.
func Convert(inPath, outPath string, def GridDef, member string) error {
	inFormat, err := FormatForPath(inPath)
	if err != nil {
		return err
	}
	outFormat, err := FormatForPath(outPath)
	if err != nil {
		return err
	}
	g, err := ReadGrid(inPath, inFormat, def, member)
	if err != nil {
		return err
	}
	return WriteGrid(outPath, outFormat, g)
}
