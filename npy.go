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
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ctessum/sparse"
)

// NumPy array file format, version 1.0:
// 6-byte magic, 2-byte version, 2-byte little-endian header length,
// then a Python dict literal padded with spaces so that the data
// section starts at a multiple of 64 bytes.
var npyMagic = []byte{0x93, 'N', 'U', 'M', 'P', 'Y'}

const npyAlign = 64

var (
	npyDescrRE = regexp.MustCompile(`'descr':\s*'([^']+)'`)
	npyOrderRE = regexp.MustCompile(`'fortran_order':\s*(True|False)`)
	npyShapeRE = regexp.MustCompile(`'shape':\s*\(([^)]*)\)`)
)

// readNPY reads a version 1.0 NumPy array from r. Element types <f8
// and <f4 are accepted; Fortran-ordered arrays are rejected.
func readNPY(r io.Reader) (*sparse.DenseArray, error) {
	pre := make([]byte, 10)
	if _, err := io.ReadFull(r, pre); err != nil {
		return nil, fmt.Errorf("geogrid: reading npy preamble: %v", err)
	}
	if string(pre[:6]) != string(npyMagic) {
		return nil, fmt.Errorf("geogrid: not a npy file (bad magic %q)", pre[:6])
	}
	if pre[6] != 1 {
		return nil, fmt.Errorf("geogrid: unsupported npy version %d.%d", pre[6], pre[7])
	}
	hlen := int(binary.LittleEndian.Uint16(pre[8:10]))
	hdr := make([]byte, hlen)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("geogrid: reading npy header: %v", err)
	}

	m := npyOrderRE.FindSubmatch(hdr)
	if m == nil {
		return nil, fmt.Errorf("geogrid: npy header missing fortran_order")
	}
	if string(m[1]) == "True" {
		return nil, fmt.Errorf("geogrid: Fortran-ordered npy arrays are not supported")
	}

	m = npyShapeRE.FindSubmatch(hdr)
	if m == nil {
		return nil, fmt.Errorf("geogrid: npy header missing shape")
	}
	var dims []int
	for _, s := range strings.Split(string(m[1]), ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		d, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("geogrid: npy shape: %v", err)
		}
		dims = append(dims, d)
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("geogrid: scalar npy arrays are not supported")
	}

	m = npyDescrRE.FindSubmatch(hdr)
	if m == nil {
		return nil, fmt.Errorf("geogrid: npy header missing descr")
	}
	descr := string(m[1])

	data := sparse.ZerosDense(dims...)
	n := len(data.Elements)
	switch descr {
	case "<f8":
		buf := make([]byte, 8*n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("geogrid: reading npy data: %v", err)
		}
		for i := 0; i < n; i++ {
			data.Elements[i] = math.Float64frombits(
				binary.LittleEndian.Uint64(buf[8*i:]))
		}
	case "<f4":
		buf := make([]byte, 4*n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("geogrid: reading npy data: %v", err)
		}
		for i := 0; i < n; i++ {
			data.Elements[i] = float64(math.Float32frombits(
				binary.LittleEndian.Uint32(buf[4*i:])))
		}
	default:
		return nil, fmt.Errorf("geogrid: unsupported npy element type %s", descr)
	}
	return data, nil
}

// writeNPY writes data to w as a version 1.0 NumPy array with element
// type <f8.
func writeNPY(w io.Writer, data *sparse.DenseArray) error {
	shape := make([]string, len(data.Shape))
	for i, d := range data.Shape {
		shape[i] = strconv.Itoa(d)
	}
	dict := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%s), }",
		strings.Join(shape, ", "))
	if len(data.Shape) == 1 {
		dict = fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%s,), }", shape[0])
	}

	// Pad so the data section starts at a multiple of 64 bytes; the
	// final header byte is a newline.
	total := len(npyMagic) + 4 + len(dict) + 1
	pad := 0
	if rem := total % npyAlign; rem != 0 {
		pad = npyAlign - rem
	}
	hlen := len(dict) + pad + 1

	hdr := make([]byte, 0, 10+hlen)
	hdr = append(hdr, npyMagic...)
	hdr = append(hdr, 1, 0)
	hdr = append(hdr, byte(hlen), byte(hlen>>8))
	hdr = append(hdr, dict...)
	for i := 0; i < pad; i++ {
		hdr = append(hdr, ' ')
	}
	hdr = append(hdr, '\n')
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("geogrid: writing npy header: %v", err)
	}

	buf := make([]byte, 8*len(data.Elements))
	for i, v := range data.Elements {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("geogrid: writing npy data: %v", err)
	}
	return nil
}
