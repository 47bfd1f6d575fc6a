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

// AdapterOptions contains options for detecting adapter contamination.
type AdapterOptions struct {
	// minimum identity of the alignment between the read and adapter
	MinIdentity float64
	// alignments starting in the first (1-MinIdentity)*len(adapter)*StartFactor
	// bases of a read are also treated as contamination.
	StartFactor float64
}

// DefaultAdapterOptions is the default AdapterOptions.
var DefaultAdapterOptions = AdapterOptions{
	MinIdentity: 0.95,
	StartFactor: 4,
}

// AdapterDetector classifies reads containing the adapter sequence.
type AdapterDetector struct {
	Adapter *reference.Reference
	Options AdapterOptions
}

// NewAdapterDetector creates an AdapterDetector.
func NewAdapterDetector(adapter *reference.Reference, options *AdapterOptions) *AdapterDetector {
	return &AdapterDetector{Adapter: adapter, Options: *options}
}

// MaxDistanceFromStart returns the tolerated start position of
// an adapter alignment in a read.
func (d *AdapterDetector) MaxDistanceFromStart() float64 {
	return (1 - d.Options.MinIdentity) * float64(d.Adapter.Len()) * d.Options.StartFactor
}

// IsAdapter tells whether the read is a contamination.
// Note that a read could be a contamination just by the alignment position.
func (d *AdapterDetector) IsAdapter(alg *align.Aligner, read *Read) bool {
	r := alg.Local(d.Adapter.Seq, read.Seq)
	if r == nil {
		return false
	}
	defer align.RecycleResult(r)

	return r.Identity() >= d.Options.MinIdentity ||
		float64(r.ReadBegin) < d.MaxDistanceFromStart()
}
