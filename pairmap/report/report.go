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

// Package report summarizes a mapping run.
package report

import (
	"bufio"
	"math"
	"os"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/shenwei356/PairMap/pairmap/output"
	"github.com/shenwei356/PairMap/pairmap/reference"
	"gonum.org/v1/gonum/stat"
)

// ErrNoScores means no relative scores are collected.
var ErrNoScores = errors.New("report: no scores")

// Collector collects relative scores of primary alignments.
// It is not thread-safe.
type Collector struct {
	scores []float64
}

// NewCollector creates a Collector.
func NewCollector() *Collector {
	return &Collector{scores: make([]float64, 0, 1024)}
}

// Add adds a score.
func (c *Collector) Add(score float64) { c.scores = append(c.scores, score) }

// Scores returns all scores in the order of adding.
func (c *Collector) Scores() []float64 { return c.scores }

// ScoreStats is the statistics of scores.
type ScoreStats struct {
	N      int     `toml:"n"`
	Mean   float64 `toml:"mean"`
	StdDev float64 `toml:"stddev"`
	Min    float64 `toml:"min"`
	Median float64 `toml:"median"`
	Max    float64 `toml:"max"`
}

// NewScoreStats computes the statistics of scores.
func NewScoreStats(scores []float64) ScoreStats {
	s := ScoreStats{N: len(scores)}
	if s.N == 0 {
		return s
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	s.Mean, s.StdDev = stat.MeanStdDev(sorted, nil)
	if math.IsNaN(s.StdDev) { // only one value
		s.StdDev = 0
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return s
}

// RefCount is the number of reads accepted by a reference.
type RefCount struct {
	ID         string  `toml:"id"`
	Length     int     `toml:"length"`
	MatchValue float64 `toml:"match-value"` // quality-scaling value of each matched base
	Reads      uint64  `toml:"reads"`
}

// Summary is the summary of a run.
type Summary struct {
	Total         uint64 `toml:"total"`
	Accepted      uint64 `toml:"accepted"`
	Failed        uint64 `toml:"failed"`
	SkippedShort  uint64 `toml:"skipped-short"`
	Supplementary uint64 `toml:"supplementary"`
	Elapsed       string `toml:"elapsed"`

	Scores     ScoreStats `toml:"relative-scores"`
	References []RefCount `toml:"references"`
}

// Summarize creates a Summary. refs and col are optional.
func Summarize(c *output.Counters, refs *reference.Set, col *Collector, skipped uint64, elapsed time.Duration) *Summary {
	s := &Summary{
		Total:         c.Total,
		Accepted:      c.TotalAccepted(),
		Failed:        c.Failed,
		SkippedShort:  skipped,
		Supplementary: c.Supplementary,
		Elapsed:       elapsed.Round(time.Millisecond).String(),
		References:    make([]RefCount, 0, len(c.RefIDs())),
	}
	var rc RefCount
	for _, id := range c.RefIDs() {
		rc = RefCount{ID: id, Reads: c.Accepted(id)}
		if refs != nil {
			if ref, ok := refs.Get(id); ok {
				rc.Length = ref.Len()
				rc.MatchValue = ref.MatchValue()
			}
		}
		s.References = append(s.References, rc)
	}
	if col != nil {
		s.Scores = NewScoreStats(col.Scores())
	}
	return s
}

// Write writes the summary in TOML format. "-" for stdout.
func (s *Summary) Write(file string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding summary")
	}

	var fh *os.File
	if file == "-" {
		fh = os.Stdout
	} else {
		fh, err = os.Create(file)
		if err != nil {
			return errors.Wrapf(err, "writing summary to %s", file)
		}
		defer fh.Close()
	}

	w := bufio.NewWriter(fh)
	if _, err = w.Write(data); err != nil {
		return errors.Wrapf(err, "writing summary to %s", file)
	}
	return errors.Wrapf(w.Flush(), "writing summary to %s", file)
}
