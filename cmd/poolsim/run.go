package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/gpupool"
	"github.com/gogpu/gpupool/internal/sim"
)

func newRunCmd(root *rootOptions) *cobra.Command {
	var frames int
	cmd := &cobra.Command{
		Use:   "run <workload.toml>",
		Short: "Replay a workload and print pool statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := sim.LoadWorkload(args[0])
			if err != nil {
				return err
			}
			if frames > 0 {
				w.Frames = frames
			}

			device, err := gpupool.OpenHeadless()
			if err != nil {
				return err
			}
			defer device.Close()

			factory, err := gpupool.NewFactoryFromProvider(device)
			if err != nil {
				return err
			}
			pool := gpupool.New(factory, gpupool.WithLabel(w.Name))
			defer pool.Close()

			report, err := sim.New(pool, w, gpupool.Logger()).Run(w.Frames)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), root.tag())
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 0, "frames to replay (default: the workload's frames)")
	return cmd
}
