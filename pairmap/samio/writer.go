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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// IsBAM tells if the output file should be in BAM format, judged by the file suffix.
func IsBAM(file string) bool {
	return strings.HasSuffix(strings.ToLower(file), ".bam")
}

// Writer writes SAM records in SAM or BAM format.
type Writer struct {
	file string

	samw *sam.Writer
	bamw *bam.Writer

	outfh *bufio.Writer
	gw    io.WriteCloser
	w     *os.File
}

// NewWriter creates a Writer, the format is decided by the file suffix:
// ".bam" for BAM, ".sam.gz" for gzipped SAM, and others (including "-" for stdout) for SAM.
func NewWriter(file string, h *sam.Header, threads int) (*Writer, error) {
	bamFormat := IsBAM(file)
	gzipped := !bamFormat && strings.HasSuffix(strings.ToLower(file), ".gz")

	outfh, gw, w, err := outStream(file, gzipped, gzip.DefaultCompression)
	if err != nil {
		return nil, err
	}

	wtr := &Writer{file: file, outfh: outfh, gw: gw, w: w}

	if bamFormat {
		if threads < 1 {
			threads = 1
		}
		wtr.bamw, err = bam.NewWriter(outfh, h, threads)
	} else {
		wtr.samw, err = sam.NewWriter(outfh, h, sam.FlagDecimal)
	}
	if err != nil {
		wtr.closeStreams()
		return nil, errors.Wrapf(err, "writing header to %s", file)
	}

	return wtr, nil
}

// Write writes a record.
func (wtr *Writer) Write(r *sam.Record) error {
	var err error
	if wtr.bamw != nil {
		err = wtr.bamw.Write(r)
	} else {
		err = wtr.samw.Write(r)
	}
	if err != nil {
		return errors.Wrapf(err, "writing to %s", wtr.file)
	}
	return nil
}

// Close flushes all data and closes the file.
func (wtr *Writer) Close() error {
	var err error
	if wtr.bamw != nil {
		err = wtr.bamw.Close()
	}
	if err2 := wtr.closeStreams(); err == nil {
		err = err2
	}
	if err != nil {
		return errors.Wrapf(err, "closing %s", wtr.file)
	}
	return nil
}

func (wtr *Writer) closeStreams() error {
	err := wtr.outfh.Flush()
	if wtr.gw != nil {
		if err2 := wtr.gw.Close(); err == nil {
			err = err2
		}
	}
	if wtr.w != os.Stdout {
		if err2 := wtr.w.Close(); err == nil {
			err = err2
		}
	}
	return err
}

func outStream(file string, gzipped bool, level int) (*bufio.Writer, io.WriteCloser, *os.File, error) {
	var w *os.File
	if file == "-" {
		w = os.Stdout
	} else {
		dir := filepath.Dir(file)
		fi, err := os.Stat(dir)
		if err == nil && !fi.IsDir() {
			return nil, nil, nil, fmt.Errorf("can not write file into a non-directory path: %s", dir)
		}
		if os.IsNotExist(err) {
			if err = os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, nil, errors.Wrapf(err, "creating directory %s", dir)
			}
		}
		w, err = os.Create(file)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "failed to write %s", file)
		}
	}

	if gzipped {
		gw, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "failed to write %s", file)
		}
		return bufio.NewWriterSize(gw, os.Getpagesize()), gw, w, nil
	}
	return bufio.NewWriterSize(w, os.Getpagesize()), nil, w, nil
}
