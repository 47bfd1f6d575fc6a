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
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/PairMap/pairmap/mapping"
	"github.com/shenwei356/xopen"
)

// ErrMalformedRecord means a record has less than 11 fields.
var ErrMalformedRecord = errors.New("samio: malformed record")

// DefaultBufferSize is the default maximum length of a line.
const DefaultBufferSize = 64 << 20

// the minimum number of fields of a SAM record
const minFields = 11

// ReadSource reads unaligned reads from a SAM file, one by one.
// It is single-pass, reopen the file to read again.
type ReadSource struct {
	file   string
	fh     *xopen.Reader
	minLen int

	scanner *bufio.Scanner
	header  []string

	// the first record line read when collecting header lines
	pending    string
	hasPending bool

	lineNum uint64
	skipped uint64
	items   []string
}

// NewReadSource opens a SAM file, and reads the header block.
// Records with sequences shorter than minLen are skipped.
func NewReadSource(file string, minLen int, bufferSize int) (*ReadSource, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", file)
	}

	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64<<10), bufferSize)

	src := &ReadSource{
		file:    file,
		fh:      fh,
		minLen:  minLen,
		scanner: scanner,
		header:  make([]string, 0, 8),
		items:   make([]string, minFields+1),
	}

	var line string
	for scanner.Scan() {
		src.lineNum++
		line = strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		if line[0] != '@' {
			src.pending = line
			src.hasPending = true
			break
		}
		src.header = append(src.header, line)
	}
	if err = scanner.Err(); err != nil {
		fh.Close()
		return nil, errors.Wrapf(err, "reading %s", file)
	}

	return src, nil
}

// Header returns the header lines, without line endings.
func (src *ReadSource) Header() []string { return src.header }

// Skipped returns the number of reads shorter than the minimum length.
func (src *ReadSource) Skipped() uint64 { return src.skipped }

// Next returns the next read, or io.EOF if there's no more reads.
func (src *ReadSource) Next() (*mapping.Read, error) {
	var line string
	for {
		if src.hasPending {
			line = src.pending
			src.hasPending = false
		} else {
			if !src.scanner.Scan() {
				if err := src.scanner.Err(); err != nil {
					return nil, errors.Wrapf(err, "reading %s", src.file)
				}
				return nil, io.EOF
			}
			src.lineNum++
			line = strings.TrimRight(src.scanner.Text(), "\r\n")
		}

		if line == "" || line[0] == '@' {
			continue
		}

		stringSplitNByByte(line, '\t', minFields+1, &src.items)
		if len(src.items) < minFields {
			return nil, errors.Wrapf(ErrMalformedRecord, "%s: line %d has only %d fields (<%d)",
				src.file, src.lineNum, len(src.items), minFields)
		}

		seq := src.items[9]
		if len(seq) < src.minLen {
			src.skipped++
			continue
		}

		read := &mapping.Read{
			ID:   src.items[0],
			Seq:  bytes.ToUpper([]byte(seq)),
			Qual: src.items[10],
		}
		if len(src.items) > minFields {
			read.Tags = src.items[minFields]
		}
		return read, nil
	}
}

// Close closes the file.
func (src *ReadSource) Close() error {
	return src.fh.Close()
}

// stringSplitNByByte splits a string into at most n fields, reusing the slice.
func stringSplitNByByte(s string, sep byte, n int, a *[]string) {
	if a == nil {
		tmp := make([]string, n)
		a = &tmp
	}
	if cap(*a) < n {
		*a = make([]string, n)
	}
	*a = (*a)[:n]

	n--
	i := 0
	for i < n {
		m := strings.IndexByte(s, sep)
		if m < 0 {
			break
		}
		(*a)[i] = s[:m]
		s = s[m+1:]
		i++
	}
	(*a)[i] = s

	(*a) = (*a)[:i+1]
}
