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
	"time"

	"github.com/shenwei356/PairMap/pairmap/mapping"
	"github.com/shenwei356/bio/seq"
	"github.com/spf13/cobra"
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Align reads in unaligned SAM to reference sequences",
	Long: `Align reads in unaligned SAM to reference sequences

Attention:
  1. Input should be an unaligned SAM file (plain or gzipped), e.g., converted from
     basecaller output with 'samtools view -h'. Header lines are kept in the output,
     except @SQ lines which are replaced by the references.
  2. References and the adapter should be (gzipped) FASTA files.
     Only the first sequence in the adapter file is used.
  3. The order of reads in output might be different from the input.

How it works:
  1. Reads shorter than -l/--min-len are skipped.
  2. If an adapter is given, reads aligned to the adapter with an identity >= 0.95,
     or with the alignment starting near the read start, are discarded.
  3. Each read is aligned to every reference with a local alignment, and the relative
     score is computed as: score / (read length * match score).
  4. By default, only the alignment with the highest relative score is kept. For equal
     scores, the reference appearing first in the reference file wins.
     With -a/--all, all alignments with relative scores not lower than the best one by
     more than -s/--max-score-gap are kept, the best one as the primary alignment,
     others as supplementary alignments (flag 2048).
  5. Alignments are kept if:
       relative score >= -m/--min-match,
       alignment length >= -l/--min-len,
       distance between alignment start and reference end >= adapter length.

Output format:
  SAM (.sam, .sam.gz, or - for stdout) or BAM (.bam), decided by the file suffix.
  MAPQ is 0, CIGAR uses =/X for matches/mismatches. Extra tags:
    sc:i  alignment score.
    rs:f  relative score.
  Tags of input reads are appended after them.

Scoring and adapter detection parameters can be changed with a config file (-c/--config),
see 'pairmap utils default-config'.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		seq.ValidateSeq = false

		outFile := expandPath(getFlagString(cmd, "out-file"))
		if outFile == "" {
			checkError(fmt.Errorf("flag -o/--out-file needed"))
		}

		var fhLog *os.File
		if opt.Log2File {
			if sameFile(outFile, opt.LogFile) {
				checkError(fmt.Errorf("output file and log file should not be the same: %s", outFile))
			}
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}

		outputLog := opt.Verbose || opt.Log2File

		timeStart := time.Now()
		defer func() {
			if outputLog {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		// ---------------------------------------------------------------

		inFile := expandPath(getFlagString(cmd, "input"))
		if inFile == "" {
			checkError(fmt.Errorf("flag -i/--input needed"))
		}
		refFile := expandPath(getFlagString(cmd, "ref"))
		if refFile == "" {
			checkError(fmt.Errorf("flag -r/--ref needed"))
		}
		adapterFile := expandPath(getFlagString(cmd, "adapter"))
		configFile := expandPath(getFlagString(cmd, "config"))

		checkError(checkFileExists(inFile, "input file", true))
		checkError(checkFileExists(refFile, "reference file", false))
		if adapterFile != "" {
			checkError(checkFileExists(adapterFile, "adapter file", false))
		}
		if configFile != "" {
			checkError(checkFileExists(configFile, "config file", false))
		}
		if sameFile(inFile, outFile) {
			checkError(errSameFile)
		}

		minLen := getFlagNonNegativeInt(cmd, "min-len")
		minMatch := getFlagFloat64(cmd, "min-match")
		if minMatch < 0 || minMatch > 1 {
			checkError(fmt.Errorf("the value of flag -m/--min-match (%f) should be in range of [0, 1]", minMatch))
		}
		maxScoreGap := getFlagFloat64(cmd, "max-score-gap")
		if maxScoreGap < 0 || maxScoreGap > 1 {
			checkError(fmt.Errorf("the value of flag -s/--max-score-gap (%f) should be in range of [0, 1]", maxScoreGap))
		}

		aopt := &AlignOptions{
			InFile:      inFile,
			RefFile:     refFile,
			AdapterFile: adapterFile,
			OutFile:     outFile,
			ConfigFile:  configFile,

			NumCPUs:    opt.NumCPUs,
			BufferSize: getFlagSize(cmd, "buffer-size"),

			Filter: mapping.FilteringParameters{
				EmitAll:            getFlagBool(cmd, "all"),
				MaxDiffFromOptimal: maxScoreGap,
				MinRelScore:        minMatch,
				MinLength:          minLen,
			},

			StatsFile:   expandPath(getFlagString(cmd, "stats-file")),
			HistFile:    expandPath(getFlagString(cmd, "score-hist")),
			ProgressBar: getFlagBool(cmd, "progress-bar"),
			Verbose:     outputLog,
		}

		if outputLog {
			log.Infof("PairMap v%s", VERSION)
			log.Info("  https://github.com/shenwei356/PairMap")
			log.Info()
			if isStdin(inFile) {
				log.Info("reading reads from stdin")
			} else {
				log.Infof("reading reads from %s", inFile)
			}
		}

		summary, err := alignReads(aopt)
		checkError(err)

		if outputLog {
			log.Info()
			logSummary(summary)
			if outFile == "-" {
				log.Info("alignments saved to stdout")
			} else {
				log.Infof("alignments saved to %s", outFile)
			}
			if aopt.StatsFile != "" {
				log.Infof("summary saved to %s", aopt.StatsFile)
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(alignCmd)

	alignCmd.Flags().StringP("input", "i", "",
		formatFlagUsage(`Input reads in unaligned SAM format, "-" for stdin.`))

	alignCmd.Flags().StringP("ref", "r", "",
		formatFlagUsage(`Reference sequences in FASTA format.`))

	alignCmd.Flags().StringP("adapter", "p", "",
		formatFlagUsage(`Adapter sequence in FASTA format, only the first record is used.`))

	alignCmd.Flags().StringP("out-file", "o", "",
		formatFlagUsage(`Out file, supports .sam, .sam.gz, .bam, and "-" for stdout (SAM format).`))

	alignCmd.Flags().IntP("min-len", "l", 15,
		formatFlagUsage(`Minimum length of reads and alignments.`))

	alignCmd.Flags().Float64P("min-match", "m", mapping.DefaultFilteringParameters.MinRelScore,
		formatFlagUsage(`Minimum relative alignment score, range: [0, 1].`))

	alignCmd.Flags().BoolP("all", "a", false,
		formatFlagUsage(`Output all alignments with relative scores close to the best one.`))

	alignCmd.Flags().Float64P("max-score-gap", "s", mapping.DefaultFilteringParameters.MaxDiffFromOptimal,
		formatFlagUsage(`Maximum difference of relative scores from the best one, for -a/--all. range: [0, 1].`))

	alignCmd.Flags().StringP("config", "c", "",
		formatFlagUsage(`Config file for alignment scoring and adapter detection, see 'pairmap utils default-config'.`))

	alignCmd.Flags().StringP("buffer-size", "b", "64M",
		formatFlagUsage(`Maximum length of a line in the input file. Supported units: K, M, G.`))

	alignCmd.Flags().StringP("stats-file", "", "",
		formatFlagUsage(`Save a summary of the run to a file in TOML format.`))

	alignCmd.Flags().StringP("score-hist", "", "",
		formatFlagUsage(`Plot a histogram of relative scores of primary alignments to a file (.png, .pdf, .svg).`))

	alignCmd.Flags().BoolP("progress-bar", "", false,
		formatFlagUsage(`Show a progress bar instead of log lines.`))

	alignCmd.SetUsageTemplate(usageTemplate("-i <reads.sam> -r <refs.fasta> [-p <adapter.fasta>] -o <out.bam>"))
}
