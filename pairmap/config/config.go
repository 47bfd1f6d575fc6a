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

// Package config handles the configuration file of alignment scoring
// and adapter detection.
package config

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/shenwei356/PairMap/pairmap/align"
	"github.com/shenwei356/PairMap/pairmap/mapping"
	"github.com/shenwei356/xopen"
)

// Scoring is the scoring scheme of alignment.
type Scoring struct {
	Match     int `toml:"match" comment:"score of a match, positive"`
	Mismatch  int `toml:"mismatch" comment:"score of a mismatch, not positive"`
	GapOpen   int `toml:"gap-open" comment:"score of opening a gap, including the first base, not positive"`
	GapExtend int `toml:"gap-extend" comment:"score of extending a gap, not positive"`
}

// Adapter contains parameters of adapter detection.
type Adapter struct {
	MinIdentity float64 `toml:"min-identity" comment:"a read is an adapter if its alignment identity with the adapter is >= this value"`
	StartFactor float64 `toml:"start-factor" comment:"or if the alignment starts before (1-min-identity)*adapter-length*start-factor in the read"`
}

// Config is the configuration.
type Config struct {
	Scoring Scoring `toml:"scoring"`
	Adapter Adapter `toml:"adapter"`
}

// Default returns the default configuration.
func Default() *Config {
	a := &align.DefaultAlignOptions
	d := &mapping.DefaultAdapterOptions
	return &Config{
		Scoring: Scoring{
			Match:     a.MatchScore,
			Mismatch:  a.MisMatchScore,
			GapOpen:   a.GapOpenScore,
			GapExtend: a.GapExtScore,
		},
		Adapter: Adapter{
			MinIdentity: d.MinIdentity,
			StartFactor: d.StartFactor,
		},
	}
}

// Load reads a config file. Missing values are filled with the defaults,
// and unknown keys are not allowed.
func Load(file string) (*Config, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", file)
	}
	defer fh.Close()

	cfg, err := Decode(fh)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", file)
	}
	return cfg, nil
}

// Decode decodes a config and validates it.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values.
func (cfg *Config) Validate() error {
	s := &cfg.Scoring
	if s.Match <= 0 {
		return fmt.Errorf("scoring.match should be positive: %d", s.Match)
	}
	if s.Mismatch > 0 {
		return fmt.Errorf("scoring.mismatch should not be positive: %d", s.Mismatch)
	}
	if s.GapOpen > 0 {
		return fmt.Errorf("scoring.gap-open should not be positive: %d", s.GapOpen)
	}
	if s.GapExtend > 0 {
		return fmt.Errorf("scoring.gap-extend should not be positive: %d", s.GapExtend)
	}

	a := &cfg.Adapter
	if a.MinIdentity < 0 || a.MinIdentity > 1 {
		return fmt.Errorf("adapter.min-identity should be in range of [0, 1]: %f", a.MinIdentity)
	}
	if a.StartFactor < 0 {
		return fmt.Errorf("adapter.start-factor should not be negative: %f", a.StartFactor)
	}
	return nil
}

// Encode writes the config in TOML format.
func (cfg *Config) Encode(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString("# pairmap config\n\n")
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	buf.Write(data)
	_, err = w.Write(buf.Bytes())
	return err
}

// AlignOptions returns the options for alignment.
func (cfg *Config) AlignOptions() align.AlignOptions {
	return align.AlignOptions{
		MatchScore:    cfg.Scoring.Match,
		MisMatchScore: cfg.Scoring.Mismatch,
		GapOpenScore:  cfg.Scoring.GapOpen,
		GapExtScore:   cfg.Scoring.GapExtend,
	}
}

// AdapterOptions returns the options for adapter detection.
func (cfg *Config) AdapterOptions() mapping.AdapterOptions {
	return mapping.AdapterOptions{
		MinIdentity: cfg.Adapter.MinIdentity,
		StartFactor: cfg.Adapter.StartFactor,
	}
}
