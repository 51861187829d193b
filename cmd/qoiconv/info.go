package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qoi/qoi"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.qoi>",
	Short: "Print the header of a QOI file without decoding it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()
		header, err := qoi.ReadHeader(file)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Printf("%s: %dx%d, %d channels, %s\n",
			args[0], header.Width, header.Height, header.Channels, colorspaceName(header.Colorspace))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func colorspaceName(cs uint8) string {
	if cs == qoi.ColorspaceLinear {
		return "all channels linear"
	}
	return "sRGB with linear alpha"
}
