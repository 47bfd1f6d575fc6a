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

import "math"

// ScoreEpsilon is the relative tolerance for treating two relative scores as equal.
const ScoreEpsilon = 1e-9

// RelativeScore normalizes a raw alignment score by the read length.
func RelativeScore(score int, readLen int, matchScore int) float64 {
	if readLen <= 0 || matchScore <= 0 {
		return 0
	}
	return float64(score) / float64(readLen*matchScore)
}

// CompareScores compares two relative scores with a tolerance.
// It returns 0 if they are close, -1 if a < b, and 1 if a > b.
//
// It is only used for selecting and sorting alignments. Near-equal
// scores are tied, and ties are resolved by the order of references.
func CompareScores(a, b float64) int {
	if math.Abs(a-b) <= ScoreEpsilon*math.Max(math.Abs(a), math.Abs(b)) {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}
