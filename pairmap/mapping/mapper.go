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
	"sync"

	"github.com/shenwei356/PairMap/pairmap/align"
	"github.com/shenwei356/PairMap/pairmap/reference"
)

// MapperOptions contains options for a Mapper.
type MapperOptions struct {
	AlignOptions align.AlignOptions

	// optional
	Adapter        *reference.Reference
	AdapterOptions AdapterOptions
}

// DefaultMapperOptions is the default MapperOptions.
var DefaultMapperOptions = MapperOptions{
	AlignOptions:   align.DefaultAlignOptions,
	AdapterOptions: DefaultAdapterOptions,
}

// Mapper aligns reads to all references.
// It holds nothing mutable and is shared by all workers.
type Mapper struct {
	refs     *reference.Set
	options  MapperOptions
	detector *AdapterDetector

	poolAligners *sync.Pool
}

// NewMapper creates a Mapper.
func NewMapper(refs *reference.Set, options *MapperOptions) *Mapper {
	m := &Mapper{
		refs:    refs,
		options: *options,
	}
	if options.Adapter != nil {
		m.detector = NewAdapterDetector(options.Adapter, &m.options.AdapterOptions)
	}
	alignOptions := &m.options.AlignOptions
	m.poolAligners = &sync.Pool{New: func() interface{} {
		return align.NewAligner(alignOptions)
	}}
	return m
}

// References returns the reference set.
func (m *Mapper) References() *reference.Set { return m.refs }

// AlignTo aligns a read to a reference, returning nil for no alignment.
func (m *Mapper) AlignTo(alg *align.Aligner, read *Read, ref *reference.Reference) *AlignedRead {
	r := alg.Local(ref.Seq, read.Seq)
	if r == nil || r.Score == 0 {
		align.RecycleResult(r)
		return nil
	}

	return &AlignedRead{
		Read:     read,
		Ref:      ref,
		Result:   r,
		RelScore: RelativeScore(r.Score, read.Len(), m.options.AlignOptions.MatchScore),
	}
}

func (m *Mapper) isAdapter(alg *align.Aligner, read *Read) bool {
	return m.detector != nil && m.detector.IsAdapter(alg, read)
}

// Best returns the alignment with the highest relative score,
// or nil if the read is a contamination or no alignments are found.
// For near-equal scores, the first reference wins.
func (m *Mapper) Best(read *Read) *AlignedRead {
	alg := m.poolAligners.Get().(*align.Aligner)
	defer m.poolAligners.Put(alg)

	if m.isAdapter(alg, read) {
		return nil
	}

	var best, a *AlignedRead
	for _, ref := range m.refs.Refs() {
		a = m.AlignTo(alg, read, ref)
		if a == nil {
			continue
		}

		if replaces(a, best) {
			if best != nil {
				align.RecycleResult(best.Result)
			}
			best = a
			continue
		}
		align.RecycleResult(a.Result)
	}

	return best
}

// replaces tells whether a later alignment replaces the current best one.
// A near-equal score does not, so the first reference wins.
func replaces(a, best *AlignedRead) bool {
	return best == nil || CompareScores(a.RelScore, best.RelScore) > 0
}

// All returns alignments to all references in the reference order,
// or nil if the read is a contamination.
func (m *Mapper) All(read *Read) []*AlignedRead {
	alg := m.poolAligners.Get().(*align.Aligner)
	defer m.poolAligners.Put(alg)

	if m.isAdapter(alg, read) {
		return nil
	}

	alignments := make([]*AlignedRead, 0, m.refs.Len())
	var a *AlignedRead
	for _, ref := range m.refs.Refs() {
		a = m.AlignTo(alg, read, ref)
		if a != nil {
			alignments = append(alignments, a)
		}
	}

	return alignments
}
