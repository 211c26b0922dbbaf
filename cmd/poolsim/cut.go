package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/gpupool/internal/sim"
	"github.com/gogpu/gpupool/subresource"
)

func newCutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cut <toCut> <cutWith>",
		Short: "Print the partition of one subresource range by another",
		Long: `Ranges are written layer:count,mip:count. For example

  poolsim cut 0:4,0:4 1:1,1:1

prints the four ranges left after removing layer 1, mip 1 from a 4x4 image
and the five-piece split that includes the removed region.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			toCut, err := sim.ParseRange(args[0])
			if err != nil {
				return err
			}
			cutWith, err := sim.ParseRange(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "overlaps: %t\n", subresource.Overlaps(toCut, cutWith))
			fmt.Fprintln(out, "cut:")
			for _, r := range subresource.Cut(toCut, cutWith) {
				fmt.Fprintf(out, "  %s\n", r)
			}
			fmt.Fprintln(out, "split:")
			for _, r := range subresource.Split(toCut, cutWith) {
				fmt.Fprintf(out, "  %s\n", r)
			}
			return nil
		},
	}
}
