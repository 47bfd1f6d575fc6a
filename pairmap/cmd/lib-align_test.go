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
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/shenwei356/PairMap/pairmap/mapping"
	"github.com/shenwei356/PairMap/pairmap/samio"
)

const (
	seqR1      = "ACGTACGTACGTACGTACGT"
	seqR2      = "TTGACCATGCAAGGTCCATGGACTTACGATCGGATCCAGT"
	seqAdapter = "AATGTACTTCGTTCAGTTACGTATTGCTAAGGTTAACAGC"
)

// seqR2 with a mismatch at position 15
var seqR3 = seqR2[:15] + "A" + seqR2[16:]

func writeTestFile(t *testing.T, dir, name, content string) string {
	file := filepath.Join(dir, name)
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return file
}

func samLine(id, s string) string {
	return id + "\t4\t*\t0\t0\t*\t*\t0\t0\t" + s + "\t" + strings.Repeat("I", len(s)) + "\tRG:Z:run1\n"
}

const samHeader = "@HD\tVN:1.6\tSO:unknown\n@RG\tID:run1\tPL:ONT\n"

func readRecords(t *testing.T, file string) (*sam.Header, []*sam.Record) {
	fh, err := os.Open(file)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()

	var h *sam.Header
	var next func() (*sam.Record, error)
	if samio.IsBAM(file) {
		r, err := bam.NewReader(fh, 1)
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()
		h, next = r.Header(), r.Read
	} else {
		r, err := sam.NewReader(fh)
		if err != nil {
			t.Fatal(err)
		}
		h, next = r.Header(), r.Read
	}

	var records []*sam.Record
	for {
		rec, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		records = append(records, rec)
	}
	return h, records
}

func testOptions(dir string, refs string, reads string, out string) *AlignOptions {
	return &AlignOptions{
		InFile:  reads,
		RefFile: refs,
		OutFile: filepath.Join(dir, out),
		NumCPUs: 2,
		Filter:  mapping.DefaultFilteringParameters,
	}
}

func TestAlignReadsBest(t *testing.T) {
	dir := t.TempDir()
	refs := writeTestFile(t, dir, "refs.fa", ">R1\n"+seqR1+"\n>R2\n"+seqR2+"\n")
	reads := writeTestFile(t, dir, "reads.sam", samHeader+
		samLine("read1", seqR1)+
		samLine("short", "ACGT")+
		samLine("read3", seqR2[:30])+
		samLine("read4", strings.Repeat("N", 20)))

	for _, out := range []string{"out.sam", "out.bam"} {
		opt := testOptions(dir, refs, reads, out)
		opt.StatsFile = filepath.Join(dir, "stats.toml")

		summary, err := alignReads(opt)
		if err != nil {
			t.Fatal(err)
		}

		if summary.Total != 3 || summary.Failed != 1 || summary.Accepted != 2 || summary.SkippedShort != 1 {
			t.Errorf("%s: unexpected summary: %+v", out, summary)
		}
		if summary.Scores.N != 2 || summary.Scores.Min != 1 {
			t.Errorf("%s: unexpected score stats: %+v", out, summary.Scores)
		}
		if _, err = os.Stat(opt.StatsFile); err != nil {
			t.Errorf("%s: stats file not saved: %s", out, err)
		}

		h, records := readRecords(t, opt.OutFile)
		if len(h.Refs()) != 2 || h.Refs()[1].Name() != "R2" || h.Refs()[1].Len() != len(seqR2) {
			t.Errorf("%s: unexpected references in header", out)
		}
		if len(h.RGs()) != 1 {
			t.Errorf("%s: read group lost in header", out)
		}

		if len(records) != 2 {
			t.Fatalf("%s: expected 2 records, returned %d", out, len(records))
		}
		byName := make(map[string]*sam.Record, 2)
		for _, rec := range records {
			byName[rec.Name] = rec
		}

		rec, ok := byName["read1"]
		if !ok {
			t.Fatalf("%s: read1 missing", out)
		}
		if rec.Ref.Name() != "R1" || rec.Flags != 0 || rec.Pos != 0 || rec.Cigar.String() != "20=" {
			t.Errorf("%s: unexpected record of read1: %s %d %d %s", out, rec.Ref.Name(), rec.Flags, rec.Pos, rec.Cigar)
		}
		if v := rec.AuxFields.Get(samio.TagRelScore); v == nil || v.Value().(float32) != 1 {
			t.Errorf("%s: expected relative score 1 for read1", out)
		}
		if rg := rec.AuxFields.Get(sam.NewTag("RG")); rg == nil || rg.Value().(string) != "run1" {
			t.Errorf("%s: tags of read1 lost", out)
		}

		rec, ok = byName["read3"]
		if !ok {
			t.Fatalf("%s: read3 missing", out)
		}
		if rec.Ref.Name() != "R2" || rec.Cigar.String() != "30=" {
			t.Errorf("%s: unexpected record of read3: %s %s", out, rec.Ref.Name(), rec.Cigar)
		}
	}
}

func TestAlignReadsAll(t *testing.T) {
	dir := t.TempDir()
	refs := writeTestFile(t, dir, "refs.fa", ">R1\n"+seqR1+"\n>R2\n"+seqR2+"\n>R3\n"+seqR3+"\n")
	reads := writeTestFile(t, dir, "reads.sam", samHeader+samLine("read1", seqR2[:30]))

	opt := testOptions(dir, refs, reads, "out.sam")
	opt.Filter.EmitAll = true
	opt.Filter.MaxDiffFromOptimal = 0.1

	summary, err := alignReads(opt)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 1 || summary.Supplementary != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.References[1].Reads != 1 || summary.References[2].Reads != 0 {
		t.Errorf("only the primary alignment should be counted: %+v", summary.References)
	}

	_, records := readRecords(t, opt.OutFile)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, returned %d", len(records))
	}
	if records[0].Ref.Name() != "R2" || records[0].Flags != 0 {
		t.Errorf("expected primary alignment to R2, returned %s %d", records[0].Ref.Name(), records[0].Flags)
	}
	if records[1].Ref.Name() != "R3" || records[1].Flags != sam.Supplementary {
		t.Errorf("expected supplementary alignment to R3, returned %s %d", records[1].Ref.Name(), records[1].Flags)
	}
	if records[1].Cigar.String() != "15=1X14=" {
		t.Errorf("unexpected CIGAR: %s", records[1].Cigar)
	}

	// a smaller gap
	opt.Filter.MaxDiffFromOptimal = 0.05
	summary, err = alignReads(opt)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Supplementary != 0 {
		t.Errorf("expected no supplementary alignments, returned %d", summary.Supplementary)
	}

	// scores are not kept without a stats file or a histogram
	if summary.Scores.N != 0 {
		t.Errorf("expected no collected scores, returned %d", summary.Scores.N)
	}
	opt.StatsFile = filepath.Join(dir, "stats.toml")
	if summary, err = alignReads(opt); err != nil {
		t.Fatal(err)
	}
	if summary.Scores.N != 1 {
		t.Errorf("expected 1 collected score, returned %d", summary.Scores.N)
	}
}

func TestAlignReadsAdapter(t *testing.T) {
	dir := t.TempDir()
	refs := writeTestFile(t, dir, "refs.fa", ">R2\n"+seqR2+"\n")
	adapter := writeTestFile(t, dir, "adapter.fa", ">adapter\n"+seqAdapter+"\n>ignored\nACGT\n")
	reads := writeTestFile(t, dir, "reads.sam", samHeader+samLine("read1", seqAdapter+seqR2[:30]))

	opt := testOptions(dir, refs, reads, "out.sam")
	opt.Filter.MinRelScore = 0.3 // 30 of 70 bases are from the reference

	// without the adapter
	summary, err := alignReads(opt)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Accepted != 1 {
		t.Errorf("expected 1 accepted read, returned %d", summary.Accepted)
	}

	opt.AdapterFile = adapter
	summary, err = alignReads(opt)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 1 || summary.Failed != 1 || summary.Accepted != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if _, records := readRecords(t, opt.OutFile); len(records) != 0 {
		t.Errorf("expected no records, returned %d", len(records))
	}
}

func TestAlignReadsErrors(t *testing.T) {
	dir := t.TempDir()
	refs := writeTestFile(t, dir, "refs.fa", ">R1\n"+seqR1+"\n")
	malformed := writeTestFile(t, dir, "bad.sam", samHeader+"read1\t4\t*\t0\n")
	config := writeTestFile(t, dir, "bad.toml", "[scoring]\nunknown = 1\n")
	reads := writeTestFile(t, dir, "reads.sam", samHeader+samLine("read1", seqR1))

	if _, err := alignReads(testOptions(dir, refs, malformed, "out.sam")); err == nil {
		t.Errorf("expected an error for malformed records")
	}

	opt := testOptions(dir, refs, reads, "out.sam")
	opt.ConfigFile = config
	if _, err := alignReads(opt); err == nil {
		t.Errorf("expected an error for a bad config file")
	}

	opt = testOptions(dir, filepath.Join(dir, "missing.fa"), reads, "out.sam")
	if _, err := alignReads(opt); err == nil {
		t.Errorf("expected an error for a missing reference file")
	}
}
