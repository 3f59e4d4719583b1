package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"vsupload/internal/clip"
	vlog "vsupload/internal/log"
	"vsupload/internal/tui"
)

var runFlagsTUI runFlags

func init() {
	runCmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Upload files/folders to a vector store with a progress view (TUI)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTTY() {
				// No terminal to draw on; behave like `upload`.
				log := newLogger()
				defer func() { _ = log.Sync() }()
				s, err := runFlagsTUI.resolve(cmd, args, log)
				if err != nil {
					return err
				}
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()
				return runHeadless(ctx, cmd.OutOrStdout(), s, runFlagsTUI, false, clip.Copy)
			}

			// Log lines would tear the alt screen unless --debug asks for them.
			log := zap.NewNop()
			if debug {
				log = vlog.NewStderr(true)
			}
			s, err := runFlagsTUI.resolve(cmd, args, log)
			if err != nil {
				return err
			}
			return tui.Run(tui.Params{
				Paths:       s.paths,
				Expand:      s.expand,
				Request:     s.request,
				Coordinator: s.coordinator,
				JSONOut:     runFlagsTUI.jsonOut,
				MDOut:       runFlagsTUI.mdOut,
			})
		},
	}

	runFlagsTUI.register(runCmd)
	rootCmd.AddCommand(runCmd)
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
