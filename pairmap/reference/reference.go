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

package reference

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
)

// MaxMappingQuality is the maximum mapping quality, used to scale MatchValue.
const MaxMappingQuality = 60

// ErrNoSequences means no sequences are found in a FASTA file.
var ErrNoSequences = errors.New("reference: no sequences found")

// Reference is a named reference sequence.
// It is never modified after being created and is shared by all workers.
type Reference struct {
	ID  string
	Seq []byte

	length     int
	matchValue float64
}

// New creates a Reference, the sequence is converted to upper case.
func New(id string, s []byte) *Reference {
	ref := &Reference{
		ID:     id,
		Seq:    bytes.ToUpper(s),
		length: len(s),
	}
	if ref.length > 0 {
		ref.matchValue = float64(MaxMappingQuality) / float64(ref.length)
	}
	return ref
}

// Len returns the sequence length.
func (ref *Reference) Len() int { return ref.length }

// MatchValue returns the quality-scaling value of each matched base.
func (ref *Reference) MatchValue() float64 { return ref.matchValue }

// Set is an ordered collection of references.
// The order is the one in the FASTA file and it decides ties in best mode.
type Set struct {
	refs  []*Reference
	index map[string]int
}

// NewSet creates a Set. IDs should be distinct.
func NewSet(refs []*Reference) (*Set, error) {
	if len(refs) == 0 {
		return nil, ErrNoSequences
	}
	s := &Set{
		refs:  refs,
		index: make(map[string]int, len(refs)),
	}
	for i, ref := range refs {
		if _, ok := s.index[ref.ID]; ok {
			return nil, fmt.Errorf("reference: duplicated sequence ID: %s", ref.ID)
		}
		if ref.Len() == 0 {
			return nil, fmt.Errorf("reference: empty sequence: %s", ref.ID)
		}
		s.index[ref.ID] = i
	}
	return s, nil
}

// Refs returns all references in order.
func (s *Set) Refs() []*Reference { return s.refs }

// Len returns the number of references.
func (s *Set) Len() int { return len(s.refs) }

// Get returns a reference by its ID.
func (s *Set) Get(id string) (*Reference, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.refs[i], true
}

// IDs returns IDs of all references in order.
func (s *Set) IDs() []string {
	ids := make([]string, len(s.refs))
	for i, ref := range s.refs {
		ids[i] = ref.ID
	}
	return ids
}

// ReadFASTA reads all sequences from a (gzipped) FASTA file.
func ReadFASTA(file string) ([]*Reference, error) {
	fastxReader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", file)
	}
	defer fastxReader.Close()

	refs := make([]*Reference, 0, 8)
	var record *fastx.Record
	for {
		record, err = fastxReader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "reading %s", file)
		}

		// the record might be reused by the reader
		refs = append(refs, New(string(record.ID), append([]byte(nil), record.Seq.Seq...)))
	}

	if len(refs) == 0 {
		return nil, errors.Wrap(ErrNoSequences, file)
	}
	return refs, nil
}

// LoadSet reads a Set from a FASTA file.
func LoadSet(file string) (*Set, error) {
	refs, err := ReadFASTA(file)
	if err != nil {
		return nil, err
	}
	s, err := NewSet(refs)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	return s, nil
}

// LoadAdapter reads the first sequence of a FASTA file as the adapter.
func LoadAdapter(file string) (*Reference, error) {
	refs, err := ReadFASTA(file)
	if err != nil {
		return nil, err
	}
	if refs[0].Len() == 0 {
		return nil, fmt.Errorf("reference: empty adapter sequence in %s", file)
	}
	return refs[0], nil
}
