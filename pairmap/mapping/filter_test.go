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
	"math/rand"
	"testing"

	"github.com/shenwei356/PairMap/pairmap/align"
	"github.com/shenwei356/PairMap/pairmap/reference"
)

func fakeAlignment(refID string, refLen int, relScore float64, alnLen int, refBegin int) *AlignedRead {
	seq := make([]byte, refLen)
	for i := range seq {
		seq[i] = 'A'
	}
	return &AlignedRead{
		Read:     &Read{ID: "read"},
		Ref:      reference.New(refID, seq),
		Result:   &align.Result{Len: alnLen, RefBegin: refBegin},
		RelScore: relScore,
	}
}

func refIDs(as []*AlignedRead) []string {
	ids := make([]string, len(as))
	for i, a := range as {
		ids[i] = a.RefID()
	}
	return ids
}

func TestIsValid(t *testing.T) {
	p := FilteringParameters{MinRelScore: 0.5, MinLength: 15, MinOffsetFromEnd: 40}

	tests := []struct {
		name     string
		a        *AlignedRead
		expected bool
	}{
		{"pass", fakeAlignment("R", 1000, 0.9, 100, 0), true},
		{"low score", fakeAlignment("R", 1000, 0.49, 100, 0), false},
		{"score at threshold", fakeAlignment("R", 1000, 0.5, 100, 0), true},
		{"short", fakeAlignment("R", 1000, 0.9, 14, 0), false},
		{"length at threshold", fakeAlignment("R", 1000, 0.9, 15, 0), true},
		{"near reference end", fakeAlignment("R", 1000, 0.9, 30, 961), false},
		{"offset at threshold", fakeAlignment("R", 1000, 0.9, 30, 960), true},
	}
	for _, test := range tests {
		if v := IsValid(test.a, &p); v != test.expected {
			t.Errorf("%s: expected %v, returned %v", test.name, test.expected, v)
		}
	}
}

func TestFilterGroup(t *testing.T) {
	p := FilteringParameters{EmitAll: true, MaxDiffFromOptimal: 0.05, MinRelScore: 0.5, MinLength: 15}

	if as := FilterGroup(nil, &p); len(as) != 0 {
		t.Errorf("expected an empty result for empty input")
	}

	tests := []struct {
		name     string
		input    []*AlignedRead
		expected []string
	}{
		{
			"near-optimal group",
			[]*AlignedRead{
				fakeAlignment("R3", 100, 0.80, 50, 0),
				fakeAlignment("R1", 100, 0.90, 50, 0),
				fakeAlignment("R2", 100, 0.89, 50, 0),
			},
			[]string{"R1", "R2"},
		},
		{
			"ties keep the reference order",
			[]*AlignedRead{
				fakeAlignment("B", 100, 0.90, 50, 0),
				fakeAlignment("A", 100, 0.90, 50, 0),
			},
			[]string{"B", "A"},
		},
		{
			"invalid best one still sets the maximum score",
			[]*AlignedRead{
				fakeAlignment("R1", 100, 0.95, 10, 0),
				fakeAlignment("R2", 100, 0.92, 50, 0),
				fakeAlignment("R3", 100, 0.85, 50, 0),
			},
			[]string{"R2"},
		},
		{
			"all invalid",
			[]*AlignedRead{
				fakeAlignment("R1", 100, 0.4, 50, 0),
				fakeAlignment("R2", 100, 0.3, 50, 0),
			},
			[]string{},
		},
	}
	for _, test := range tests {
		ids := refIDs(FilterGroup(test.input, &p))
		if len(ids) != len(test.expected) {
			t.Errorf("%s: expected %v, returned %v", test.name, test.expected, ids)
			continue
		}
		for i := range ids {
			if ids[i] != test.expected[i] {
				t.Errorf("%s: expected %v, returned %v", test.name, test.expected, ids)
				break
			}
		}
	}
}

func TestFilterGroupProperties(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	p := FilteringParameters{EmitAll: true, MinRelScore: 0.5, MinLength: 15, MinOffsetFromEnd: 10}

	for round := 0; round < 1000; round++ {
		p.MaxDiffFromOptimal = r.Float64() * 0.3

		n := r.Intn(8)
		input := make([]*AlignedRead, n)
		for i := range input {
			input[i] = fakeAlignment("R", 100, r.Float64(), r.Intn(40), r.Intn(100))
		}

		output := FilterGroup(input, &p)
		if len(output) == 0 {
			continue
		}

		max := output[0].RelScore
		for i, a := range output {
			if !IsValid(a, &p) {
				t.Fatalf("round %d: invalid alignment returned", round)
			}
			if max-a.RelScore > p.MaxDiffFromOptimal {
				t.Fatalf("round %d: score %f too far from the best %f", round, a.RelScore, max)
			}
			if i > 0 && a.RelScore > output[i-1].RelScore {
				t.Fatalf("round %d: scores not in descending order", round)
			}
		}
	}
}
