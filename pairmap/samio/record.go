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

package samio

import (
	"strconv"
	"strings"

	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"
	"github.com/shenwei356/PairMap/pairmap/align"
	"github.com/shenwei356/PairMap/pairmap/mapping"
)

// custom tags of alignment scores
var (
	TagScore    = sam.NewTag("sc") // raw alignment score
	TagRelScore = sam.NewTag("rs") // relative alignment score
)

// RecordBuilder converts alignments to SAM records of a header.
type RecordBuilder struct {
	header *sam.Header
	sb     strings.Builder
}

// NewRecordBuilder creates a RecordBuilder.
func NewRecordBuilder(h *sam.Header) *RecordBuilder {
	return &RecordBuilder{header: h}
}

// Format formats an alignment in a SAM line, without the line ending.
func (b *RecordBuilder) Format(a *mapping.AlignedRead, supplementary bool) string {
	var flag int
	if supplementary {
		flag = int(sam.Supplementary)
	}

	r := a.Result
	cigar := align.CigarString(r.Cigar(a.Read.Seq, a.Ref.Seq))

	qual := a.Qual
	if qual == "" {
		qual = "*"
	}

	sb := &b.sb
	sb.Reset()
	sb.WriteString(a.ID)
	sb.WriteByte('\t')
	sb.WriteString(strconv.Itoa(flag))
	sb.WriteByte('\t')
	sb.WriteString(a.RefID())
	sb.WriteByte('\t')
	sb.WriteString(strconv.Itoa(r.RefBegin + 1))
	sb.WriteString("\t0\t")
	sb.WriteString(cigar)
	sb.WriteString("\t*\t0\t0\t")
	sb.Write(a.Read.Seq)
	sb.WriteByte('\t')
	sb.WriteString(qual)
	sb.WriteString("\tsc:i:")
	sb.WriteString(strconv.Itoa(r.Score))
	sb.WriteString("\trs:f:")
	sb.WriteString(strconv.FormatFloat(a.RelScore, 'g', -1, 32))
	if a.Tags != "" {
		sb.WriteByte('\t')
		sb.WriteString(a.Tags)
	}
	return sb.String()
}

// Build creates a SAM record from an alignment.
// Supplementary alignments have the flag 0x800.
func (b *RecordBuilder) Build(a *mapping.AlignedRead, supplementary bool) (*sam.Record, error) {
	line := b.Format(a, supplementary)

	rec := &sam.Record{}
	if err := rec.UnmarshalSAM(b.header, []byte(line)); err != nil {
		return nil, errors.Wrapf(err, "creating record for read %s", a.ID)
	}
	return rec, nil
}
