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
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/sparse"
)

func TestNPYRoundTrip(t *testing.T) {
	data := sparse.ZerosDense(3, 4)
	for i := range data.Elements {
		data.Elements[i] = float64(i) * 1.5
	}
	data.Set(math.NaN(), 1, 2)

	var buf bytes.Buffer
	if err := writeNPY(&buf, data); err != nil {
		t.Fatal(err)
	}
	// The data section must start at a multiple of 64 bytes.
	if n := buf.Len() - 8*len(data.Elements); n%64 != 0 {
		t.Errorf("header length %d is not 64-byte aligned", n)
	}
	got, err := readNPY(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !samePlane(data, got) {
		t.Error("round trip changed the array")
	}
}

func TestNPYRoundTrip1D(t *testing.T) {
	data := sparse.ZerosDense(5)
	for i := range data.Elements {
		data.Elements[i] = float64(i)
	}
	var buf bytes.Buffer
	if err := writeNPY(&buf, data); err != nil {
		t.Fatal(err)
	}
	got, err := readNPY(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !samePlane(data, got) {
		t.Error("round trip changed the array")
	}
}

// rawNPY builds a version 1.0 npy file by hand so the reader can be
// tested against headers this package's writer never produces.
func rawNPY(t *testing.T, dict string, data []byte) []byte {
	t.Helper()
	hlen := len(dict) + 1
	var buf bytes.Buffer
	buf.Write([]byte{0x93, 'N', 'U', 'M', 'P', 'Y', 1, 0})
	var l [2]byte
	binary.LittleEndian.PutUint16(l[:], uint16(hlen))
	buf.Write(l[:])
	buf.WriteString(dict)
	buf.WriteByte('\n')
	buf.Write(data)
	return buf.Bytes()
}

func TestReadNPYFloat32(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint32(data, math.Float32bits(1.5))
	binary.LittleEndian.PutUint32(data[4:], math.Float32bits(-2))
	in := rawNPY(t, "{'descr': '<f4', 'fortran_order': False, 'shape': (2,), }", data)
	got, err := readNPY(bytes.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if got.Elements[0] != 1.5 || got.Elements[1] != -2 {
		t.Errorf("got %v", got.Elements)
	}
}

func TestReadNPYRejects(t *testing.T) {
	cases := []struct {
		name, dict string
	}{
		{"fortran order", "{'descr': '<f8', 'fortran_order': True, 'shape': (2,), }"},
		{"unsupported type", "{'descr': '<i8', 'fortran_order': False, 'shape': (2,), }"},
		{"scalar", "{'descr': '<f8', 'fortran_order': False, 'shape': (), }"},
	}
	for _, c := range cases {
		in := rawNPY(t, c.dict, make([]byte, 16))
		if _, err := readNPY(bytes.NewReader(in)); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
	if _, err := readNPY(strings.NewReader("not a npy file at all")); err == nil {
		t.Error("bad magic: expected error")
	}
}

func TestNPZRoundTrip(t *testing.T) {
	g := testGrid(t)
	path := filepath.Join(t.TempDir(), "age.npz")
	if err := WriteGridNPZ(path, g); err != nil {
		t.Fatal(err)
	}

	members, err := NPZMembers(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 1 || members[0] != "age" {
		t.Fatalf("members: %v", members)
	}

	got, err := ReadGridNPZ(path, "age", g.GridDef)
	if err != nil {
		t.Fatal(err)
	}
	if !samePlane(g.Data, got.Data) {
		t.Error("round trip changed the value plane")
	}
}

func TestReadNPZUnknownMember(t *testing.T) {
	g := testGrid(t)
	path := filepath.Join(t.TempDir(), "age.npz")
	if err := WriteGridNPZ(path, g); err != nil {
		t.Fatal(err)
	}
	_, err := ReadNPZ(path, "elevation")
	if err == nil {
		t.Fatal("expected error for an unknown member")
	}
	// The error should tell the user what is in the archive.
	if !strings.Contains(err.Error(), "age") {
		t.Errorf("error does not list members: %v", err)
	}
}

func TestReadGridNPZShapeMismatch(t *testing.T) {
	g := testGrid(t)
	path := filepath.Join(t.TempDir(), "age.npz")
	if err := WriteGridNPZ(path, g); err != nil {
		t.Fatal(err)
	}
	def := g.GridDef
	def.Nx++
	if _, err := ReadGridNPZ(path, "age", def); err == nil {
		t.Error("expected error for a shape mismatch")
	}
}

func TestWriteNPZUncompressed(t *testing.T) {
	data := sparse.ZerosDense(2, 2)
	path := filepath.Join(t.TempDir(), "plain.npz")
	if err := WriteNPZ(path, false, map[string]*sparse.DenseArray{"a": data, "b": data}); err != nil {
		t.Fatal(err)
	}
	members, err := NPZMembers(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 || members[0] != "a" || members[1] != "b" {
		t.Errorf("members: %v", members)
	}
}
