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
	"strconv"
	"strings"
)

// CIGAR operations, with matches and mismatches distinguished.
const (
	OpM byte = '=' // match
	OpX byte = 'X' // mismatch
	OpI byte = 'I' // insertion to the reference
	OpD byte = 'D' // deletion from the reference
	OpS byte = 'S' // soft clipping
)

// CigarOp is a run-length encoded alignment operation.
type CigarOp struct {
	Op byte
	N  int
}

// Cigar returns the CIGAR operations of the alignment.
// Read bases outside the local alignment are soft clipped,
// so the operations always cover the whole read.
func (r *Result) Cigar(read []byte, ref []byte) []CigarOp {
	ops := make([]CigarOp, 0, 8)

	add := func(op byte) {
		if n := len(ops); n > 0 && ops[n-1].Op == op {
			ops[n-1].N++
			return
		}
		ops = append(ops, CigarOp{Op: op, N: 1})
	}

	if r.ReadBegin > 0 {
		ops = append(ops, CigarOp{Op: OpS, N: r.ReadBegin})
	}

	for _, p := range r.Trace {
		switch {
		case p.Ref < 0:
			add(OpI)
		case p.Read < 0:
			add(OpD)
		case read[p.Read] == ref[p.Ref] && read[p.Read] != 'N':
			add(OpM)
		default:
			add(OpX)
		}
	}

	if tail := r.ReadLen - 1 - r.ReadEnd; tail > 0 {
		ops = append(ops, CigarOp{Op: OpS, N: tail})
	}

	return ops
}

// CigarString formats CIGAR operations.
func CigarString(ops []CigarOp) string {
	if len(ops) == 0 {
		return "*"
	}
	var sb strings.Builder
	for _, op := range ops {
		sb.WriteString(strconv.Itoa(op.N))
		sb.WriteByte(op.Op)
	}
	return sb.String()
}
