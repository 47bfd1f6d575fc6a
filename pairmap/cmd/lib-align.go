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

package cmd

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/PairMap/pairmap/align"
	"github.com/shenwei356/PairMap/pairmap/config"
	"github.com/shenwei356/PairMap/pairmap/mapping"
	"github.com/shenwei356/PairMap/pairmap/output"
	"github.com/shenwei356/PairMap/pairmap/pool"
	"github.com/shenwei356/PairMap/pairmap/reference"
	"github.com/shenwei356/PairMap/pairmap/report"
	"github.com/shenwei356/PairMap/pairmap/samio"
)

// chunk size of reads sent to workers
const taskQueueSize = 1000

// AlignOptions contains options of aligning reads.
type AlignOptions struct {
	InFile      string
	RefFile     string
	AdapterFile string // optional
	OutFile     string
	ConfigFile  string // optional

	NumCPUs    int
	BufferSize int

	Filter mapping.FilteringParameters

	StatsFile   string // optional
	HistFile    string // optional
	ProgressBar bool
	Verbose     bool
}

// alignment results of a read
type mapped struct {
	best  *mapping.AlignedRead   // best mode
	group []*mapping.AlignedRead // all mode
}

// alignReads aligns all reads in the input file and writes accepted alignments.
func alignReads(opt *AlignOptions) (*report.Summary, error) {
	timeStart := time.Now()

	// ---------------------------------------------------------------
	// config and references

	cfg := config.Default()
	var err error
	if opt.ConfigFile != "" {
		cfg, err = config.Load(opt.ConfigFile)
		if err != nil {
			return nil, err
		}
	}

	refs, err := reference.LoadSet(opt.RefFile)
	if err != nil {
		return nil, err
	}
	if opt.Verbose {
		log.Infof("%d references loaded from %s", refs.Len(), opt.RefFile)
	}

	mopt := mapping.MapperOptions{
		AlignOptions:   cfg.AlignOptions(),
		AdapterOptions: cfg.AdapterOptions(),
	}

	fp := opt.Filter
	if opt.AdapterFile != "" {
		mopt.Adapter, err = reference.LoadAdapter(opt.AdapterFile)
		if err != nil {
			return nil, err
		}
		fp.MinOffsetFromEnd = mopt.Adapter.Len()
		if opt.Verbose {
			log.Infof("adapter loaded: %s (%d bp)", mopt.Adapter.ID, mopt.Adapter.Len())
		}
	}

	mapper := mapping.NewMapper(refs, &mopt)

	// ---------------------------------------------------------------
	// input and output

	src, err := samio.NewReadSource(opt.InFile, fp.MinLength, opt.BufferSize)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	header, err := samio.NewHeader(src.Header(), refs.Refs(), VERSION)
	if err != nil {
		return nil, err
	}

	w, err := samio.NewWriter(opt.OutFile, header, opt.NumCPUs)
	if err != nil {
		return nil, err
	}
	closed := false
	defer func() {
		if !closed {
			w.Close()
		}
	}()

	var reporter output.Reporter
	var bar *barReporter
	if opt.ProgressBar {
		bar = newBarReporter()
		reporter = bar
	} else if opt.Verbose {
		reporter = logReporter{}
	}

	asm := output.NewAssembler(w, samio.NewRecordBuilder(header), reporter,
		refs.IDs(), fp.EmitAll, 0)

	// scores are only kept for the stats file and the histogram
	var collector *report.Collector
	if opt.StatsFile != "" || opt.HistFile != "" {
		collector = report.NewCollector()
	}

	// ---------------------------------------------------------------
	// mapping

	if opt.Verbose {
		if fp.EmitAll {
			log.Infof("aligning reads with %d threads, outputting all alignments with a max score gap of %.4f",
				opt.NumCPUs, fp.MaxDiffFromOptimal)
		} else {
			log.Infof("aligning reads with %d threads, outputting the best alignment", opt.NumCPUs)
		}
	}

	p := pool.New[*mapping.Read, *mapped](&pool.Options{
		Threads:   opt.NumCPUs,
		QueueSize: taskQueueSize,
	})

	var fn func(*mapping.Read) (*mapped, error)
	if fp.EmitAll {
		fn = func(read *mapping.Read) (*mapped, error) {
			return &mapped{group: filterGroup(mapper.All(read), &fp)}, nil
		}
	} else {
		fn = func(read *mapping.Read) (*mapped, error) {
			a := mapper.Best(read)
			if a != nil && !mapping.IsValid(a, &fp) {
				align.RecycleResult(a.Result)
				a = nil
			}
			return &mapped{best: a}, nil
		}
	}

	consume := func(m *mapped) error {
		if fp.EmitAll {
			if collector != nil && len(m.group) > 0 {
				collector.Add(m.group[0].RelScore)
			}
			return asm.AddGroup(m.group)
		}
		if collector != nil && m.best != nil {
			collector.Add(m.best.RelScore)
		}
		return asm.AddBest(m.best)
	}

	err = p.Run(context.Background(), src, fn, consume)
	if bar != nil {
		bar.done()
	}
	if err != nil {
		return nil, err
	}

	if err = asm.Close(); err != nil {
		return nil, err
	}
	closed = true
	if err = w.Close(); err != nil {
		return nil, err
	}

	counters := asm.Counters()
	if err = counters.Check(); err != nil {
		return nil, err
	}

	// ---------------------------------------------------------------
	// summary

	summary := report.Summarize(counters, refs, collector, src.Skipped(), time.Since(timeStart))

	if opt.StatsFile != "" {
		if err = summary.Write(opt.StatsFile); err != nil {
			return nil, err
		}
	}
	if opt.HistFile != "" {
		err = report.PlotHistogram(opt.HistFile, collector.Scores(), report.DefaultBins)
		if err == report.ErrNoScores {
			log.Warningf("no accepted alignments, skip plotting histogram: %s", opt.HistFile)
		} else if err != nil {
			return nil, err
		}
	}

	return summary, nil
}

// filterGroup filters alignments and recycles the discarded ones.
func filterGroup(as []*mapping.AlignedRead, fp *mapping.FilteringParameters) []*mapping.AlignedRead {
	if len(as) == 0 {
		return as
	}
	kept := mapping.FilterGroup(as, fp)

	// kept ones are a subset of the input
	m := make(map[*mapping.AlignedRead]struct{}, len(kept))
	for _, a := range kept {
		m[a] = struct{}{}
	}
	for _, a := range as {
		if _, ok := m[a]; !ok {
			align.RecycleResult(a.Result)
		}
	}
	return kept
}

func logSummary(s *report.Summary) {
	log.Infof("processed reads: %d, accepted: %d, failed: %d, skipped short reads: %d",
		s.Total, s.Accepted, s.Failed, s.SkippedShort)
	for _, r := range s.References {
		log.Infof("  %s (%d bp): %d", r.ID, r.Length, r.Reads)
	}
	if s.Supplementary > 0 {
		log.Infof("supplementary alignments: %d", s.Supplementary)
	}
	if s.Scores.N > 0 {
		log.Infof("relative scores of primary alignments: mean %.4f, stddev %.4f, min %.4f, median %.4f, max %.4f",
			s.Scores.Mean, s.Scores.StdDev, s.Scores.Min, s.Scores.Median, s.Scores.Max)
	}
}

var errSameFile = errors.New("output file should not be the input file")
