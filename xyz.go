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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadXYZ parses a whitespace-delimited text grid from r. Each line
// holds a "lon lat value" triple; lines appear in row-major order
// over the sampling described by def, and the literal NaN (any case)
// marks a missing sample. The number of lines must equal def.Size().
// The stored coordinates are redundant with def and are discarded;
// only the value plane is kept.
func ReadXYZ(r io.Reader, def GridDef, name string) (*Grid, error) {
	g, err := NewGrid(def, name)
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024), 1024*1024)
	var n int
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if n >= def.Size() {
			return nil, fmt.Errorf("geogrid: text grid has more than the expected %d rows", def.Size())
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("geogrid: text grid line %d: expected 3 fields, got %d", n+1, len(fields))
		}
		// The coordinates are redundant with def but still have to
		// be numbers.
		for _, f := range fields[:2] {
			if _, err := strconv.ParseFloat(f, 64); err != nil {
				return nil, fmt.Errorf("geogrid: text grid line %d: %v", n+1, err)
			}
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("geogrid: text grid line %d: %v", n+1, err)
		}
		g.Data.Elements[n] = v
		n++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("geogrid: reading text grid: %v", err)
	}
	if n != def.Size() {
		return nil, fmt.Errorf("geogrid: text grid has %d rows; expected %d", n, def.Size())
	}
	return g, nil
}

// ReadXYZFile reads the text grid in the file at path.
func ReadXYZFile(path string, def GridDef) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geogrid: opening text grid: %v", err)
	}
	defer f.Close()
	return ReadXYZ(f, def, gridName(path))
}

// WriteXYZ writes g to w in the text encoding read by ReadXYZ, with
// coordinates reconstructed from the sampling.
func WriteXYZ(w io.Writer, g *Grid) error {
	b := bufio.NewWriter(w)
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			_, err := fmt.Fprintf(b, "%g\t%g\t%g\n",
				g.Lon(i), g.Lat(j), g.Data.Get(j, i))
			if err != nil {
				return fmt.Errorf("geogrid: writing text grid: %v", err)
			}
		}
	}
	return b.Flush()
}

// WriteXYZFile writes g to a text grid file at path.
func WriteXYZFile(path string, g *Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("geogrid: creating text grid: %v", err)
	}
	if err := WriteXYZ(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
