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
	"time"

	"github.com/GaryBoone/GoStats/stats"
)

// LoadTiming records the wall-clock durations of repeated loads of
// one encoding of a dataset.
type LoadTiming struct {
	Format    string
	Durations []time.Duration
}

// Mean returns the mean load duration.
func (t *LoadTiming) Mean() time.Duration {
	if len(t.Durations) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range t.Durations {
		sum += d
	}
	return sum / time.Duration(len(t.Durations))
}

// Stats returns the mean and sample standard deviation of the load
// durations in seconds.
func (t *LoadTiming) Stats() (mean, stddev float64) {
	var s stats.Stats
	for _, d := range t.Durations {
		s.Update(d.Seconds())
	}
	if s.Count() < 2 {
		return s.Mean(), 0
	}
	return s.Mean(), s.SampleStandardDeviation()
}

// LoadResult is the outcome of comparing the load cost of the text
// and binary encodings of one dataset.
type LoadResult struct {
	Def      GridDef
	Text     LoadTiming
	Binary   LoadTiming
	Speedup  float64 // mean text duration over mean binary duration
	LastGrid *Grid   // the plane decoded in the final trial
}

// BenchmarkLoads times loading the dataset sampled as def from its
// text encoding at xyzPath and its binary encoding at npzPath
// (member member), running each load trials times. If member is
// empty, the archive must hold exactly one member, which is used.
// Every trial verifies that the two decoded value planes are
// element-wise identical; a mismatch means the two files do not
// encode the same dataset and is an error.
func BenchmarkLoads(xyzPath, npzPath, member string, def GridDef, trials int) (*LoadResult, error) {
	if trials < 1 {
		return nil, fmt.Errorf("geogrid: benchmark needs at least 1 trial; got %d", trials)
	}
	if err := def.Valid(); err != nil {
		return nil, err
	}
	if member == "" {
		members, err := NPZMembers(npzPath)
		if err != nil {
			return nil, err
		}
		if len(members) != 1 {
			return nil, fmt.Errorf("geogrid: %s has %d members; name one of them", npzPath, len(members))
		}
		member = members[0]
	}
	r := &LoadResult{
		Def:    def,
		Text:   LoadTiming{Format: "text"},
		Binary: LoadTiming{Format: "binary"},
	}
	for i := 0; i < trials; i++ {
		begin := time.Now()
		tg, err := ReadXYZFile(xyzPath, def)
		if err != nil {
			return nil, err
		}
		r.Text.Durations = append(r.Text.Durations, time.Since(begin))

		begin = time.Now()
		bg, err := ReadGridNPZ(npzPath, member, def)
		if err != nil {
			return nil, err
		}
		r.Binary.Durations = append(r.Binary.Durations, time.Since(begin))

		if !samePlane(tg.Data, bg.Data) {
			return nil, fmt.Errorf("geogrid: %s and %s decode to different value planes",
				xyzPath, npzPath)
		}
		r.LastGrid = bg
	}
	// A zero binary mean can happen on a coarse clock with a tiny
	// grid; leave Speedup zero rather than dividing by it.
	if bm := r.Binary.Mean(); bm > 0 {
		r.Speedup = r.Text.Mean().Seconds() / bm.Seconds()
	}
	return r, nil
}

// Fprint writes a human-readable benchmark report to w.
func (r *LoadResult) Fprint(w io.Writer) {
	fmt.Fprintf(w, "grid %d×%d (%d samples), %d trial(s)\n",
		r.Def.Nx, r.Def.Ny, r.Def.Size(), len(r.Text.Durations))
	for _, t := range []*LoadTiming{&r.Text, &r.Binary} {
		mean, stddev := t.Stats()
		if stddev > 0 {
			fmt.Fprintf(w, "%-8s %.4gs (σ %.1gs)\n", t.Format, mean, stddev)
		} else {
			fmt.Fprintf(w, "%-8s %.4gs\n", t.Format, mean)
		}
	}
	if r.Speedup > 0 {
		fmt.Fprintf(w, "binary load is %.1f× faster than text\n", r.Speedup)
	}
}
