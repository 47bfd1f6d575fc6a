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
	"os"

	"github.com/shenwei356/PairMap/pairmap/output"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// logReporter logs counters after each flush.
type logReporter struct{}

func (logReporter) Report(c *output.Counters) {
	log.Info(c.String())
}

// barReporter shows the number of processed reads in a progress bar.
type barReporter struct {
	pbs *mpb.Progress
	bar *mpb.Bar
}

func newBarReporter() *barReporter {
	pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	bar := pbs.AddBar(0,
		mpb.PrependDecorators(
			decor.Name("processed reads: ", decor.WC{W: len("processed reads: "), C: decor.DindentRight}),
			decor.CurrentNoUnit("%d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.AverageSpeed(0, "%.2f reads/s", decor.WCSyncWidth),
			decor.Name(" ", decor.WCSyncWidthR),
			decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncWidth),
		),
	)
	return &barReporter{pbs: pbs, bar: bar}
}

func (r *barReporter) Report(c *output.Counters) {
	r.bar.SetCurrent(int64(c.Total))
}

// done completes the bar and waits for it to be rendered.
func (r *barReporter) done() {
	r.bar.SetTotal(-1, true)
	r.pbs.Wait()
}
