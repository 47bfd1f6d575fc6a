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

// Package output turns alignments of reads into batches of records,
// writes them out, and keeps counting.
package output

import (
	"github.com/biogo/hts/sam"
	"github.com/shenwei356/PairMap/pairmap/align"
	"github.com/shenwei356/PairMap/pairmap/mapping"
)

// numbers of reads between two flushes
const (
	FlushEveryBest = 10000
	FlushEveryAll  = 1000
)

// RecordBuilder creates a record from an alignment.
type RecordBuilder interface {
	Build(a *mapping.AlignedRead, supplementary bool) (*sam.Record, error)
}

// RecordWriter is a sink of records.
type RecordWriter interface {
	Write(r *sam.Record) error
}

// Reporter reports the progress after each flush.
type Reporter interface {
	Report(c *Counters)
}

// Assembler collects records of alignments and flushes them
// to a RecordWriter in batches.
// All methods must be called from the same goroutine.
type Assembler struct {
	w        RecordWriter
	b        RecordBuilder
	reporter Reporter

	counters   *Counters
	flushEvery uint64

	batch    []*sam.Record
	nPending uint64 // reads since the last flush
}

// NewAssembler creates an Assembler.
// If flushEvery is not positive, FlushEveryBest or FlushEveryAll is used.
// reporter can be nil.
func NewAssembler(w RecordWriter, b RecordBuilder, reporter Reporter,
	refIDs []string, allMode bool, flushEvery int) *Assembler {
	if flushEvery <= 0 {
		if allMode {
			flushEvery = FlushEveryAll
		} else {
			flushEvery = FlushEveryBest
		}
	}
	return &Assembler{
		w:          w,
		b:          b,
		reporter:   reporter,
		counters:   NewCounters(refIDs, allMode),
		flushEvery: uint64(flushEvery),
		batch:      make([]*sam.Record, 0, flushEvery),
	}
}

// Counters returns the counters.
func (asm *Assembler) Counters() *Counters { return asm.counters }

// AddBest adds the best alignment of a read. nil means the read failed.
// The alignment result is recycled.
func (asm *Assembler) AddBest(a *mapping.AlignedRead) error {
	if a == nil {
		asm.counters.fail()
		return asm.afterRead()
	}

	rec, err := asm.b.Build(a, false)
	align.RecycleResult(a.Result)
	if err != nil {
		return err
	}
	asm.batch = append(asm.batch, rec)
	asm.counters.accept(a.RefID())

	return asm.afterRead()
}

// AddGroup adds a filtered group of alignments of a read.
// The first one is the primary alignment, and others are supplementary.
// An empty group means the read failed.
// Alignment results are recycled.
func (asm *Assembler) AddGroup(as []*mapping.AlignedRead) error {
	if len(as) == 0 {
		asm.counters.fail()
		return asm.afterRead()
	}

	var rec *sam.Record
	var err error
	for i, a := range as {
		rec, err = asm.b.Build(a, i > 0)
		if err != nil {
			return err
		}
		asm.batch = append(asm.batch, rec)
	}
	asm.counters.accept(as[0].RefID())
	asm.counters.Supplementary += uint64(len(as) - 1)

	for _, a := range as {
		align.RecycleResult(a.Result)
	}

	return asm.afterRead()
}

func (asm *Assembler) afterRead() error {
	asm.nPending++
	if asm.nPending < asm.flushEvery {
		return nil
	}
	return asm.Flush()
}

// Flush writes all pending records and reports the progress.
func (asm *Assembler) Flush() error {
	for _, rec := range asm.batch {
		if err := asm.w.Write(rec); err != nil {
			return err
		}
	}
	asm.batch = asm.batch[:0]
	asm.nPending = 0

	if asm.reporter != nil {
		asm.reporter.Report(asm.counters)
	}
	return nil
}

// Close flushes the remaining records. It does not close the RecordWriter.
func (asm *Assembler) Close() error {
	return asm.Flush()
}
