package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"qoi/qoi"
)

var rootCmd = &cobra.Command{
	Use:           "qoiconv",
	Short:         "Convert images to and from the QOI format",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var convertCmd = &cobra.Command{
	Use:   "convert <infile> <outfile>",
	Short: "Convert a single image",
	Example: `  qoiconv convert input.png output.qoi
  qoiconv convert input.qoi output.png`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return convertFile(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func convertFile(inputFilename, outputFilename string) error {
	inputImg, err := imaging.Open(inputFilename)
	if err != nil {
		return describeOpenError(inputFilename, err)
	}

	if !isQOIFilename(outputFilename) {
		if err := imaging.Save(inputImg, outputFilename); err != nil {
			return fmt.Errorf("could not save the output image: %w", err)
		}
		return nil
	}

	outputFile, err := os.Create(outputFilename)
	if err != nil {
		return fmt.Errorf("could not open the output file: %w", err)
	}
	if err := qoi.Encode(outputFile, inputImg); err != nil {
		outputFile.Close()
		return fmt.Errorf("could not encode the image: %w", err)
	}
	return outputFile.Close()
}

func describeOpenError(filename string, err error) error {
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		return fmt.Errorf("%s: the only supported formats are png, jpeg, bmp, tiff, gif & qoi", filename)
	}
	return fmt.Errorf("could not open the input image: %w", err)
}

func isQOIFilename(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".qoi")
}
