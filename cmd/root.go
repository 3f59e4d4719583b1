package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vsupload",
	Short: "Upload files and folders into an OpenAI vector store",
	Long: "vsupload expands the selected files and folders, uploads every file to the files API one at a time, " +
		"and attaches them to an existing or newly created vector store whose id it prints.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to vsupload.yaml (default ./vsupload.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

var (
	configPath string
	debug      bool
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
