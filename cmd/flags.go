package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vsupload/internal/config"
	"vsupload/internal/fspaths"
	vlog "vsupload/internal/log"
	"vsupload/internal/upload"
)

// runFlags are shared by the upload and run commands.
type runFlags struct {
	apiKey           string
	collectionID     string
	collectionName   string
	baseURL          string
	timeout          time.Duration
	include          []string
	respectGitignore bool
	cleanupOnFailure bool
	verifyCollection bool
	jsonOut          string
	mdOut            string
}

func (f *runFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.apiKey, "api-key", "", "API key (default from config or $"+config.APIKeyEnv+")")
	fl.StringVar(&f.collectionID, "collection-id", "", "existing vector store id to attach to (created when empty)")
	fl.StringVar(&f.collectionName, "collection-name", upload.DefaultCollectionName, "name for a newly created vector store")
	fl.StringVar(&f.baseURL, "base-url", "", "API base URL (default https://api.openai.com/v1)")
	fl.DurationVar(&f.timeout, "timeout", 60*time.Second, "per-request timeout")
	fl.StringSliceVar(&f.include, "include", nil, "only upload files in folders matching these globs (e.g. **/*.md)")
	fl.BoolVar(&f.respectGitignore, "respect-gitignore", false, "skip files ignored by a folder's .gitignore")
	fl.BoolVar(&f.cleanupOnFailure, "cleanup-on-failure", false, "delete already uploaded files when an upload fails")
	fl.BoolVar(&f.verifyCollection, "verify-collection", false, "check that --collection-id exists before uploading")
	fl.StringVar(&f.jsonOut, "json-out", "", "path to write a JSON run summary")
	fl.StringVar(&f.mdOut, "md-out", "", "path to write a Markdown run summary")
}

// settings is everything a shell needs for one run.
type settings struct {
	paths       []string
	expand      fspaths.Options
	request     upload.Request
	coordinator *upload.Coordinator
	log         *zap.Logger
}

// resolve merges the config file with the flags the user actually set.
func (f *runFlags) resolve(cmd *cobra.Command, args []string, log *zap.Logger) (*settings, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if len(cfg.UnsetVars) > 0 {
		log.Warn("config references unset environment variables", zap.Strings("vars", cfg.UnsetVars))
	}
	changed := cmd.Flags().Changed

	if changed("collection-id") {
		cfg.CollectionID = f.collectionID
	}
	if changed("collection-name") {
		cfg.CollectionName = f.collectionName
	}
	if changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if changed("timeout") {
		cfg.Timeout = config.Duration{Duration: f.timeout}
	}
	if changed("include") {
		cfg.Include = f.include
	}
	if changed("respect-gitignore") {
		cfg.RespectGitignore = f.respectGitignore
	}
	if changed("cleanup-on-failure") {
		cfg.CleanupOnFailure = f.cleanupOnFailure
	}
	if changed("verify-collection") {
		cfg.VerifyCollection = f.verifyCollection
	}

	coord := upload.NewCoordinator(upload.StoreConnector(cfg.StoreConfig()), upload.Options{
		CollectionName:   cfg.CollectionName,
		CleanupOnFailure: cfg.CleanupOnFailure,
		VerifyCollection: cfg.VerifyCollection,
		Logger:           log,
	})

	return &settings{
		paths: splitTargets(args),
		expand: fspaths.Options{
			Include:          cfg.Include,
			RespectGitignore: cfg.RespectGitignore,
		},
		request: upload.Request{
			Credential:   cfg.ResolveAPIKey(f.apiKey),
			CollectionID: cfg.CollectionID,
		},
		coordinator: coord,
		log:         log,
	}, nil
}

func newLogger() *zap.Logger {
	return vlog.NewStderr(debug)
}

// splitTargets allows comma-separated chunks in each argument.
func splitTargets(args []string) []string {
	var out []string
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			p := strings.TrimSpace(part)
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
