package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/gogpu/gpupool"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	verbose bool
	lang    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "poolsim",
		Short: "Simulate GPU resource pool workloads",
		Long: `poolsim replays render pass workloads against a transient GPU
resource pool on a headless device.

It reports how many images and buffers were created versus reused and how
many subresource barriers the per-image state trackers emitted.`,
		Version:       gpupool.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if opts.verbose {
				gpupool.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pool and barrier activity to stderr")
	cmd.PersistentFlags().StringVar(&opts.lang, "lang", "en", "language tag used to format numbers in reports")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newCutCmd())
	return cmd
}

// tag returns the report language, falling back to English.
func (o *rootOptions) tag() language.Tag {
	t, err := language.Parse(o.lang)
	if err != nil {
		return language.English
	}
	return t
}
