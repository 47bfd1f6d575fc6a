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

package align

import (
	"sync"
)

// Pointer is for saving where the score of the M state comes from.
type Pointer uint8

const (
	None Pointer = iota // No data, start of a local alignment.
	Diag                // from the M state
	Top                 // from the F state, closing a gap in the read, i.e., a deletion
	Left                // from the E state, closing a gap in the reference, i.e., an insertion
)

// bits marking that a gap state comes from extending an existing gap.
const (
	extLeft uint8 = 1 << iota
	extTop
)

// a small enough score which never wins, and never overflows when adding penalties.
const negInf = -(1 << 30)

// Aligner implements the Smith-Waterman-Gotoh algorithm,
// i.e., local alignment with affine gap penalties.
//
// Three states are kept for each cell: M (the column is a match or mismatch),
// E (a gap in the reference) and F (a gap in the read).
// Gaps are only opened from the M state, so the score of a gap
// never depends on the relation between GapOpenScore and GapExtScore.
//
// An Aligner reuses its matrices, so it is not safe for concurrent use.
type Aligner struct {
	Options *AlignOptions

	// reusable variables
	pointers []Pointer // where the M state comes from
	gapExts  []uint8   // whether the E/F states are extended

	mPrev, mCur []int // M scores of the previous and current row
	ePrev, eCur []int // E scores
	fPrev, fCur []int // F scores
}

// AlignOptions contains all alignment options.
// A gap of length n scores GapOpenScore + (n-1)*GapExtScore.
type AlignOptions struct {
	MatchScore    int // score for a match
	MisMatchScore int // score for a mismatch
	GapOpenScore  int // score for the first base of a gap
	GapExtScore   int // score for each following base of a gap
}

// DefaultAlignOptions is the default AlignOptions,
// matching bases in NUC.4.4 and a gap penalty of (-5, -8).
var DefaultAlignOptions = AlignOptions{
	MatchScore:    5,
	MisMatchScore: -4,
	GapOpenScore:  -5,
	GapExtScore:   -8,
}

// Pair is a column of an alignment, -1 means a gap.
type Pair struct {
	Ref  int // 0-based position in the reference
	Read int // 0-based position in the read
}

// Result holds the details of a local alignment.
type Result struct {
	Score   int    // simply the score
	Len     int    // length of alignment, i.e., the number of columns
	Matches int    // number of matches
	Gaps    int    // number of gap columns
	Trace   []Pair // columns of the alignment

	RefBegin, RefEnd   int // 0-based, closed interval
	ReadBegin, ReadEnd int // 0-based, closed interval

	RefLen  int // length of the whole reference
	ReadLen int // length of the whole read
}

// Reset resets all the values.
func (r *Result) Reset() {
	r.Score = 0
	r.Len = 0
	r.Matches = 0
	r.Gaps = 0
	r.Trace = r.Trace[:0]
	r.RefBegin, r.RefEnd = 0, 0
	r.ReadBegin, r.ReadEnd = 0, 0
	r.RefLen, r.ReadLen = 0, 0
}

// Identity returns the fraction of identical columns in the alignment.
func (r *Result) Identity() float64 {
	if r.Len == 0 {
		return 0
	}
	return float64(r.Matches) / float64(r.Len)
}

var poolResult = &sync.Pool{New: func() interface{} {
	return &Result{Trace: make([]Pair, 0, 1024)}
}}

// RecycleResult recycles an alignment result.
func RecycleResult(r *Result) {
	if r != nil {
		poolResult.Put(r)
	}
}

// NewAligner returns an aligner.
func NewAligner(options *AlignOptions) *Aligner {
	alg := &Aligner{
		Options:  options,
		pointers: make([]Pointer, 1<<20),
		gapExts:  make([]uint8, 1<<20),
	}
	return alg
}

// Local aligns a read (b) to a reference (a) with local alignment.
// It returns nil if the optimal score is not positive.
// The result could be recycled by calling RecycleResult after using.
func (alg *Aligner) Local(a, b []byte) *Result {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	h := len(a) + 1 // height of the matrix
	w := len(b) + 1 // width of the matrix

	// ---------------------------------------------------
	// initialize

	var i, j, k int

	n := h * w
	if n > len(alg.pointers) {
		alg.pointers = make([]Pointer, n)
		alg.gapExts = make([]uint8, n)
	}
	pointers := alg.pointers[:n]
	gapExts := alg.gapExts[:n]

	if w > cap(alg.mPrev) {
		alg.mPrev, alg.mCur = make([]int, w), make([]int, w)
		alg.ePrev, alg.eCur = make([]int, w), make([]int, w)
		alg.fPrev, alg.fCur = make([]int, w), make([]int, w)
	}
	mPrev, mCur := alg.mPrev[:w], alg.mCur[:w]
	ePrev, eCur := alg.ePrev[:w], alg.eCur[:w]
	fPrev, fCur := alg.fPrev[:w], alg.fCur[:w]

	for j = 0; j < w; j++ {
		mPrev[j], ePrev[j], fPrev[j] = negInf, negInf, negInf
		pointers[j] = None
		gapExts[j] = 0
	}

	match := alg.Options.MatchScore
	mismatch := alg.Options.MisMatchScore
	gapOpen := alg.Options.GapOpenScore
	gapExt := alg.Options.GapExtScore

	// ---------------------------------------------------
	// compute

	var s, open, ext int
	var p Pointer
	var flag uint8
	var ai byte
	var best, bi, bj int
	for i = 1; i < h; i++ {
		k = idx(i, 0, w)
		pointers[k] = None
		gapExts[k] = 0
		mCur[0], eCur[0], fCur[0] = negInf, negInf, negInf

		ai = a[i-1]
		for j = 1; j < w; j++ {
			k++
			flag = 0

			// M: the best predecessor on the diagonal, or a new start
			s, p = 0, None
			if mPrev[j-1] > s {
				s, p = mPrev[j-1], Diag
			}
			if ePrev[j-1] > s {
				s, p = ePrev[j-1], Left
			}
			if fPrev[j-1] > s {
				s, p = fPrev[j-1], Top
			}
			if ai == b[j-1] && ai != 'N' {
				s += match
			} else {
				s += mismatch
			}
			mCur[j] = s
			pointers[k] = p

			// E: gap in the reference
			open = mCur[j-1] + gapOpen
			ext = eCur[j-1] + gapExt
			if ext > open {
				eCur[j] = ext
				flag |= extLeft
			} else {
				eCur[j] = open
			}

			// F: gap in the read
			open = mPrev[j] + gapOpen
			ext = fPrev[j] + gapExt
			if ext > open {
				fCur[j] = ext
				flag |= extTop
			} else {
				fCur[j] = open
			}

			gapExts[k] = flag

			// an optimal local alignment always ends with a match
			if s > best {
				best, bi, bj = s, i, j
			}
		}

		mPrev, mCur = mCur, mPrev
		ePrev, eCur = eCur, ePrev
		fPrev, fCur = fCur, fPrev
	}

	if best == 0 {
		return nil
	}

	// ---------------------------------------------------
	// traceback

	r := poolResult.Get().(*Result)
	r.Reset()
	r.Score = best
	r.RefLen = len(a)
	r.ReadLen = len(b)
	r.RefEnd = bi - 1
	r.ReadEnd = bj - 1

	i, j = bi, bj
	state := Diag
TRACE:
	for {
		k = idx(i, j, w)
		switch state {
		case Left:
			r.Trace = append(r.Trace, Pair{Ref: -1, Read: j - 1})
			r.Gaps++
			if gapExts[k]&extLeft == 0 {
				state = Diag
			}
			j--
		case Top:
			r.Trace = append(r.Trace, Pair{Ref: i - 1, Read: -1})
			r.Gaps++
			if gapExts[k]&extTop == 0 {
				state = Diag
			}
			i--
		default:
			r.Trace = append(r.Trace, Pair{Ref: i - 1, Read: j - 1})
			if a[i-1] == b[j-1] && a[i-1] != 'N' {
				r.Matches++
			}
			p = pointers[k]
			i--
			j--
			if p == None {
				break TRACE
			}
			state = p
		}
	}

	reversePairs(r.Trace)
	r.Len = len(r.Trace)
	r.RefBegin = r.Trace[0].Ref
	r.ReadBegin = r.Trace[0].Read

	return r
}

func idx(i, j, w int) int {
	return (i * w) + j
}

func reversePairs(s []Pair) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
