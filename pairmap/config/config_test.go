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

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shenwei356/PairMap/pairmap/align"
)

func TestDefaultRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Encode(&buf); err != nil {
		t.Fatal(err)
	}

	cfg, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *Default() {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.AlignOptions() != align.DefaultAlignOptions {
		t.Errorf("unexpected align options: %+v", cfg.AlignOptions())
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		check func(*Config) bool
		err   bool
	}{
		{
			"partial",
			"[adapter]\nmin-identity = 0.9\n",
			func(c *Config) bool {
				return c.Adapter.MinIdentity == 0.9 && c.Adapter.StartFactor == 4 && c.Scoring.Match == 5
			},
			false,
		},
		{
			"scoring",
			"[scoring]\nmatch = 2\nmismatch = -3\ngap-open = -5\ngap-extend = -2\n",
			func(c *Config) bool {
				o := c.AlignOptions()
				return o.MatchScore == 2 && o.MisMatchScore == -3 && o.GapOpenScore == -5 && o.GapExtScore == -2
			},
			false,
		},
		{"unknown key", "[scoring]\nfoo = 1\n", nil, true},
		{"zero match", "[scoring]\nmatch = 0\n", nil, true},
		{"positive gap", "[scoring]\ngap-open = 1\n", nil, true},
		{"identity out of range", "[adapter]\nmin-identity = 1.5\n", nil, true},
		{"bad syntax", "[scoring\n", nil, true},
	}
	for _, test := range tests {
		cfg, err := Decode(strings.NewReader(test.text))
		if test.err {
			if err == nil {
				t.Errorf("%s: expected an error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %s", test.name, err)
			continue
		}
		if !test.check(cfg) {
			t.Errorf("%s: unexpected config: %+v", test.name, cfg)
		}
	}
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pairmap.toml")
	if err := os.WriteFile(file, []byte("[adapter]\nstart-factor = 2.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatal(err)
	}
	if o := cfg.AdapterOptions(); o.StartFactor != 2.5 || o.MinIdentity != 0.95 {
		t.Errorf("unexpected adapter options: %+v", o)
	}

	if _, err = Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
