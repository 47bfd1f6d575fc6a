// Copyright © 2023-2026 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package mapping

import (
	"math"
	"testing"

	"github.com/shenwei356/PairMap/pairmap/align"
	"github.com/shenwei356/PairMap/pairmap/reference"
)

const seqR1 = "ACGTACGTACGTACGTACGT"

// a 40-bp adapter, and its copies with mismatches
const adapter = "AATGTACTTCGTTCAGTTACGTATTGCTAAGGTTAACAGC"
const adapter1Mismatch = "AATGTACTTCGTTCAGTTACCTATTGCTAAGGTTAACAGC" // identity 0.975
const adapter3Mismatch = "AATGTACTTCCTTCAGTTACCTATTGCTAACGTTAACAGC" // identity 0.925

func newSet(t *testing.T, kvs ...string) *reference.Set {
	refs := make([]*reference.Reference, 0, len(kvs)/2)
	for i := 0; i < len(kvs); i += 2 {
		refs = append(refs, reference.New(kvs[i], []byte(kvs[i+1])))
	}
	s, err := reference.NewSet(refs)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func newRead(id, s string) *Read {
	return &Read{ID: id, Seq: []byte(s), Qual: "*"}
}

func TestRelativeScore(t *testing.T) {
	if v := RelativeScore(100, 20, 5); v != 1 {
		t.Errorf("expected 1, returned %f", v)
	}
	if v := RelativeScore(50, 20, 5); v != 0.5 {
		t.Errorf("expected 0.5, returned %f", v)
	}
	if v := RelativeScore(50, 0, 5); v != 0 {
		t.Errorf("expected 0 for an empty read, returned %f", v)
	}
}

func TestCompareScores(t *testing.T) {
	tests := []struct {
		a, b     float64
		expected int
	}{
		{0.9, 0.9, 0},
		{0.9, 0.9 + 1e-12, 0},
		{0.3, 0.1 + 0.2, 0},
		{0.9, 0.89, 1},
		{0.89, 0.9, -1},
		{0, 0, 0},
	}
	for _, test := range tests {
		if v := CompareScores(test.a, test.b); v != test.expected {
			t.Errorf("CompareScores(%v, %v): expected %d, returned %d", test.a, test.b, test.expected, v)
		}
	}
}

func TestBestIdentical(t *testing.T) {
	refs := newSet(t, "R1", seqR1, "R2", "TTTTGGGGCCCCAAAATTTTGGGG")
	m := NewMapper(refs, &DefaultMapperOptions)

	a := m.Best(newRead("read1", seqR1))
	if a == nil {
		t.Fatal("expected an alignment")
	}
	if a.RefID() != "R1" {
		t.Errorf("reference: expected R1, returned %s", a.RefID())
	}
	if a.RelScore != 1.0 {
		t.Errorf("relative score: expected 1.0, returned %f", a.RelScore)
	}
	if !IsValid(a, &DefaultFilteringParameters) {
		t.Errorf("the alignment should be valid")
	}
}

func TestBestTie(t *testing.T) {
	// the first reference wins for tied scores
	m := NewMapper(newSet(t, "A", seqR1, "B", seqR1), &DefaultMapperOptions)
	if a := m.Best(newRead("r", seqR1)); a == nil || a.RefID() != "A" {
		t.Errorf("expected reference A")
	}

	m = NewMapper(newSet(t, "B", seqR1, "A", seqR1), &DefaultMapperOptions)
	if a := m.Best(newRead("r", seqR1)); a == nil || a.RefID() != "B" {
		t.Errorf("expected reference B")
	}
}

func TestBestNearTie(t *testing.T) {
	best := fakeAlignment("A", 1000, 0.8, 100, 0)

	tests := []struct {
		name     string
		score    float64
		expected bool
	}{
		{"higher within tolerance", 0.8 * (1 + ScoreEpsilon/2), false},
		{"lower within tolerance", 0.8 * (1 - ScoreEpsilon/2), false},
		{"rounding error", 0.1 + 0.7, false},
		{"higher", 0.8 + 1e-6, true},
		{"lower", 0.8 - 1e-6, false},
	}
	for _, test := range tests {
		a := fakeAlignment("B", 1000, test.score, 100, 0)
		if v := replaces(a, best); v != test.expected {
			t.Errorf("%s: expected %v, returned %v", test.name, test.expected, v)
		}
	}

	if !replaces(best, nil) {
		t.Errorf("the first alignment should always be taken")
	}

	// the same rule decides the primary alignment in a group
	p := FilteringParameters{EmitAll: true, MaxDiffFromOptimal: 0.1}
	group := []*AlignedRead{
		fakeAlignment("A", 1000, 0.8, 100, 0),
		fakeAlignment("B", 1000, 0.8*(1+ScoreEpsilon/2), 100, 0),
	}
	if ids := refIDs(FilterGroup(group, &p)); len(ids) != 2 || ids[0] != "A" {
		t.Errorf("expected A as the primary alignment, returned %v", ids)
	}
}

func TestBestNoAlignment(t *testing.T) {
	m := NewMapper(newSet(t, "R1", "AAAAAAAAAAAAAAAAAAAA"), &DefaultMapperOptions)
	if a := m.Best(newRead("r", "CCCCCCCCCCCCCCCCCCCC")); a != nil {
		t.Errorf("expected no alignment, returned score %d", a.Result.Score)
	}
}

func TestAll(t *testing.T) {
	refs := newSet(t,
		"R1", seqR1,
		"R2", "NNNNNNNNNNNNNNNNNNNN",
		"R3", "ACGTACGTACGTAAAAAAAA",
	)
	m := NewMapper(refs, &DefaultMapperOptions)

	as := m.All(newRead("r", seqR1))
	if len(as) != 2 {
		t.Fatalf("expected 2 alignments, returned %d", len(as))
	}
	if as[0].RefID() != "R1" || as[1].RefID() != "R3" {
		t.Errorf("alignments should be in the reference order: %s, %s", as[0].RefID(), as[1].RefID())
	}
	for _, a := range as {
		if a.RelScore < 0 || a.RelScore > 1 {
			t.Errorf("relative score out of range: %f", a.RelScore)
		}
	}
}

func TestAdapterDetector(t *testing.T) {
	adpt := reference.New("adapter", []byte(adapter))
	d := NewAdapterDetector(adpt, &DefaultAdapterOptions)
	alg := align.NewAligner(&DefaultMapperOptions.AlignOptions)

	if v := d.MaxDistanceFromStart(); math.Abs(v-8) > 1e-9 {
		t.Errorf("max distance from start: expected 8, returned %f", v)
	}

	tests := []struct {
		name     string
		read     string
		expected bool
	}{
		{"high identity at start", adapter1Mismatch + seqR1 + seqR1, true},
		{"high identity in middle", seqR1 + seqR1 + adapter1Mismatch, true},
		{"low identity near start", "TTT" + adapter3Mismatch + seqR1, true},
		{"low identity in middle", "CCCCCCCCCCCCCCCCCCCCCCCCCCCCCC" + adapter3Mismatch + "CCCCCCCCCC", false},
		{"no alignment", "NNNNNNNNNNNNNNNNNNNN", false},
	}
	for _, test := range tests {
		if v := d.IsAdapter(alg, newRead(test.name, test.read)); v != test.expected {
			t.Errorf("%s: expected %v, returned %v", test.name, test.expected, v)
		}
	}
}

func TestContamination(t *testing.T) {
	refs := newSet(t, "R1", seqR1)
	read := newRead("r", adapter1Mismatch+seqR1)

	m := NewMapper(refs, &DefaultMapperOptions)
	if a := m.Best(read); a == nil {
		t.Errorf("expected an alignment without the adapter")
	}

	opt := DefaultMapperOptions
	opt.Adapter = reference.New("adapter", []byte(adapter))
	m = NewMapper(refs, &opt)
	if a := m.Best(read); a != nil {
		t.Errorf("expected no alignment for a contamination")
	}
	if as := m.All(read); len(as) != 0 {
		t.Errorf("expected no alignments for a contamination, returned %d", len(as))
	}
}
