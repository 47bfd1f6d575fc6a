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
	"github.com/shenwei356/PairMap/pairmap/align"
	"github.com/shenwei356/PairMap/pairmap/reference"
)

// Read is a sequencing read. It is never modified after being created.
type Read struct {
	ID   string
	Seq  []byte // in upper case
	Qual string // quality string, "*" for absent
	Tags string // optional fields after QUAL, kept verbatim
}

// Len returns the sequence length.
func (r *Read) Len() int { return len(r.Seq) }

// AlignedRead is a read aligned to a reference.
type AlignedRead struct {
	*Read

	Ref    *reference.Reference
	Result *align.Result

	// RelScore is the alignment score normalized by
	// the read length and the match score, in [0, 1].
	RelScore float64
}

// RefID returns the ID of the reference.
func (a *AlignedRead) RefID() string { return a.Ref.ID }
