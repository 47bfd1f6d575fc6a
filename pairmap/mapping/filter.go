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

import "sort"

// FilteringParameters contains thresholds for alignments.
type FilteringParameters struct {
	// output all alignments within MaxDiffFromOptimal, not only the best one
	EmitAll bool
	// maximum difference of relative score to the best one, for supplementary alignments
	MaxDiffFromOptimal float64
	// minimum relative score
	MinRelScore float64
	// minimum number of alignment columns
	MinLength int
	// minimum distance from the alignment start to the end of reference,
	// it is set to the adapter length when an adapter is given.
	MinOffsetFromEnd int
}

// DefaultFilteringParameters is the default FilteringParameters.
var DefaultFilteringParameters = FilteringParameters{
	EmitAll:            false,
	MaxDiffFromOptimal: 1.0,
	MinRelScore:        0.5,
	MinLength:          15,
}

// IsValid checks if an alignment passes all thresholds.
func IsValid(a *AlignedRead, p *FilteringParameters) bool {
	return a.RelScore >= p.MinRelScore &&
		a.Result.Len >= p.MinLength &&
		a.Ref.Len()-a.Result.RefBegin >= p.MinOffsetFromEnd
}

// FilterGroup returns valid alignments close to the best one, in descending
// order of relative score. The first one is the primary alignment, and the
// others are supplementary ones. The input slice is sorted in place.
func FilterGroup(alignments []*AlignedRead, p *FilteringParameters) []*AlignedRead {
	if len(alignments) == 0 {
		return nil
	}

	// stable, so the reference order decides ties
	sort.SliceStable(alignments, func(i, j int) bool {
		return CompareScores(alignments[i].RelScore, alignments[j].RelScore) > 0
	})

	maxScore := alignments[0].RelScore

	valid := make([]*AlignedRead, 0, len(alignments))
	for _, a := range alignments {
		if !IsValid(a, p) {
			continue
		}

		// sorted, the remaining ones are even worse
		if maxScore-a.RelScore > p.MaxDiffFromOptimal {
			break
		}

		valid = append(valid, a)
	}

	return valid
}
