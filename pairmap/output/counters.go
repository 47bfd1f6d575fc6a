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

package output

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Counters records the numbers of processed reads.
// It is owned by the goroutine consuming alignments and is not thread-safe.
type Counters struct {
	AllMode bool

	Total         uint64 // reads processed
	Failed        uint64 // reads with no accepted alignments, including adapters
	Supplementary uint64 // supplementary alignments in all mode

	refIDs   []string
	accepted map[string]uint64
}

// NewCounters creates Counters for references.
func NewCounters(refIDs []string, allMode bool) *Counters {
	accepted := make(map[string]uint64, len(refIDs))
	for _, id := range refIDs {
		accepted[id] = 0
	}
	return &Counters{
		AllMode:  allMode,
		refIDs:   refIDs,
		accepted: accepted,
	}
}

// RefIDs returns reference IDs in the reference order.
func (c *Counters) RefIDs() []string { return c.refIDs }

// Accepted returns the number of reads accepted by a reference.
func (c *Counters) Accepted(refID string) uint64 { return c.accepted[refID] }

// TotalAccepted returns the number of accepted reads.
func (c *Counters) TotalAccepted() uint64 {
	var n uint64
	for _, v := range c.accepted {
		n += v
	}
	return n
}

// Check checks that every processed read is either accepted by one reference or failed.
func (c *Counters) Check() error {
	if n := c.TotalAccepted() + c.Failed; n != c.Total {
		return fmt.Errorf("output: %d accepted + %d failed != %d total",
			c.TotalAccepted(), c.Failed, c.Total)
	}
	return nil
}

// FailedFraction returns the fraction of failed reads.
func (c *Counters) FailedFraction() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Failed) / float64(c.Total)
}

func (c *Counters) accept(refID string) {
	c.Total++
	c.accepted[refID]++
}

func (c *Counters) fail() {
	c.Total++
	c.Failed++
}

// String returns a one-line summary.
func (c *Counters) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "processed reads: %s, failed: %s (%.2f%%)",
		humanize.Comma(int64(c.Total)), humanize.Comma(int64(c.Failed)), c.FailedFraction()*100)
	for _, id := range c.refIDs {
		fmt.Fprintf(&sb, ", %s: %s", id, humanize.Comma(int64(c.accepted[id])))
	}
	if c.AllMode {
		fmt.Fprintf(&sb, ", supplementary alignments: %s", humanize.Comma(int64(c.Supplementary)))
	}
	return sb.String()
}
