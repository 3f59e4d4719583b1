package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vsupload/internal/clip"
	"vsupload/internal/fspaths"
	"vsupload/internal/report"
	"vsupload/internal/upload"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

var (
	uploadFlags runFlags
	copyID      bool
)

func init() {
	uploadCmd := &cobra.Command{
		Use:   "upload [paths...]",
		Short: "Upload files/folders and attach them to a vector store (headless)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer func() { _ = log.Sync() }()

			s, err := uploadFlags.resolve(cmd, args, log)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return runHeadless(ctx, cmd.OutOrStdout(), s, uploadFlags, copyID, clip.Copy)
		},
	}

	uploadFlags.register(uploadCmd)
	uploadCmd.Flags().BoolVar(&copyID, "copy", false, "copy the vector store id to the clipboard")
	rootCmd.AddCommand(uploadCmd)
}

// runHeadless expands, uploads and reports with plain line output.
func runHeadless(ctx context.Context, out io.Writer, s *settings, f runFlags, copyToClipboard bool, copyFn func(string) error) error {
	startedAt := time.Now()

	files, err := fspaths.Expand(s.paths, s.expand)
	if err != nil {
		return err
	}
	s.log.Debug("expanded selection", zap.Strings("roots", s.paths), zap.Int("files", len(files)))

	req := s.request
	req.Files = files
	res, runErr := s.coordinator.Run(ctx, req, func(completed, total int) {
		if completed == 0 {
			fmt.Fprintf(out, "Uploading %d files\n", total)
			return
		}
		fmt.Fprintf(out, "%s %s\n", gray(fmt.Sprintf("[%d/%d]", completed, total)), filepath.Base(files[completed-1]))
	})

	if upload.IsNothingToDo(runErr) {
		fmt.Fprintln(out, "No files found.")
		return nil
	}

	summary := report.Summary{
		Roots:      s.paths,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Files:      files,
		Result:     res,
		Err:        runErr,
	}
	if f.jsonOut != "" {
		if _, err := report.WriteJSON(f.jsonOut, summary); err != nil {
			s.log.Warn("writing JSON report failed", zap.String("path", f.jsonOut), zap.Error(err))
		}
	}
	if f.mdOut != "" {
		if _, err := report.WriteMarkdown(f.mdOut, summary); err != nil {
			s.log.Warn("writing Markdown report failed", zap.String("path", f.mdOut), zap.Error(err))
		}
	}

	if runErr != nil {
		fmt.Fprintf(out, "%s %v\n", red("✗"), runErr)
		return fmt.Errorf("upload aborted: %w", runErr)
	}

	verb := "attached to"
	if res.Created {
		verb = "created"
	}
	fmt.Fprintf(out, "%s %d files uploaded, vector store %s\n", green("✓"), len(res.Files), verb)
	fmt.Fprintf(out, "Vector Store ID: %s\n", bold(res.CollectionID))

	if copyToClipboard {
		if err := copyFn(res.CollectionID); err != nil {
			s.log.Warn("copy to clipboard failed", zap.Error(err))
		} else {
			fmt.Fprintln(out, "Copied to clipboard.")
		}
	}
	return nil
}
