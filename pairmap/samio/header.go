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
	"bytes"
	"fmt"
	"strings"

	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"
	"github.com/shenwei356/PairMap/pairmap/reference"
)

// ProgramID is the ID of the @PG line added to the output header.
const ProgramID = "pairmap"

// NewHeader creates the output header from header lines of the input file
// and the references. @SQ lines of the input are dropped as they do not
// describe the new references. A @PG line is appended if version is given.
func NewHeader(lines []string, refs []*reference.Reference, version string) (*sam.Header, error) {
	var buf bytes.Buffer
	var hasPG bool
	for _, line := range lines {
		if strings.HasPrefix(line, "@SQ\t") {
			continue
		}
		if strings.HasPrefix(line, "@PG\t") && strings.Contains(line, "\tID:"+ProgramID) {
			hasPG = true
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if version != "" && !hasPG {
		fmt.Fprintf(&buf, "@PG\tID:%s\tPN:%s\tVN:%s\n", ProgramID, ProgramID, version)
	}

	samRefs := make([]*sam.Reference, 0, len(refs))
	for _, ref := range refs {
		r, err := sam.NewReference(ref.ID, "", "", ref.Len(), nil, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "creating header for reference: %s", ref.ID)
		}
		samRefs = append(samRefs, r)
	}

	var text []byte
	if buf.Len() > 0 {
		text = buf.Bytes()
	}
	h, err := sam.NewHeader(text, samRefs)
	if err != nil {
		return nil, errors.Wrap(err, "creating header")
	}
	return h, nil
}
