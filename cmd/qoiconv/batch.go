package main

import (
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/gammazero/workerpool"
	"github.com/spf13/cobra"
)

var (
	batchOutDir  string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <files...>",
	Short: "Convert many images concurrently",
	Long: `Converts each input file and writes the result into the output directory.
QOI inputs become PNG, everything else becomes QOI.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pool := workerpool.New(batchWorkers)
		var failed int64
		for _, input := range args {
			input := input
			pool.Submit(func() {
				output := filepath.Join(batchOutDir, batchOutputName(input))
				if err := convertFile(input, output); err != nil {
					log.Printf("%s: %v", input, err)
					atomic.AddInt64(&failed, 1)
				}
			})
		}
		pool.StopWait()
		if n := atomic.LoadInt64(&failed); n > 0 {
			return fmt.Errorf("%d of %d conversions failed", n, len(args))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", ".", "output directory")
	batchCmd.Flags().IntVarP(&batchWorkers, "jobs", "j", runtime.NumCPU(), "concurrent conversions")
	rootCmd.AddCommand(batchCmd)
}

func batchOutputName(input string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if isQOIFilename(input) {
		return stem + ".png"
	}
	return stem + ".qoi"
}
