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
	"fmt"
	"os"

	"github.com/shenwei356/PairMap/pairmap/config"
	"github.com/spf13/cobra"
)

var utilsCmd = &cobra.Command{
	Use:   "utils",
	Short: "Some utilities",
	Long: `Some utilities

`,
}

var defaultConfigCmd = &cobra.Command{
	Use:   "default-config",
	Short: "Print the default config file",
	Long: `Print the default config file

The config file is in TOML format, with two tables:
  [scoring]  scores of match, mismatch, gap opening and gap extension for local alignment.
             A gap of length n scores gap-open + (n-1) * gap-extend.
  [adapter]  parameters of adapter detection.

Missing keys are set with default values, and unknown keys are not allowed.

`,
	Run: func(cmd *cobra.Command, args []string) {
		outFile := getFlagString(cmd, "out-file")

		var fh *os.File
		if outFile == "-" {
			fh = os.Stdout
		} else {
			var err error
			fh, err = os.Create(expandPath(outFile))
			checkError(err)
			defer fh.Close()
		}

		checkError(config.Default().Encode(fh))

		if outFile != "-" {
			fmt.Fprintf(os.Stderr, "default config saved to %s\n", outFile)
		}
	},
}

func init() {
	RootCmd.AddCommand(utilsCmd)
	utilsCmd.AddCommand(defaultConfigCmd)

	defaultConfigCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, "-" for stdout.`))

	defaultConfigCmd.SetUsageTemplate(usageTemplate(""))
}
