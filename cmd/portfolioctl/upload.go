package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/adapters/persistence"
	"github.com/khoahotran/portfolio/internal/application/usecase/seed"
	"github.com/khoahotran/portfolio/internal/domain/content"
)

type uploadOptions struct {
	clear    bool
	force    bool
	dryRun   bool
	seedPath string
}

func newUploadCmd(a *app) *cobra.Command {
	opts := &uploadOptions{}

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload every collection from the seed file",
		Long: `Upload every known collection from the seed file, in order, then write
the personal info and analytics documents.

With --clear each collection is emptied before its records are written, which
makes repeated runs idempotent. Without it every run appends.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpload(cmd, a, opts, "")
		},
	}

	collectionCmd := &cobra.Command{
		Use:   "collection <name>",
		Short: "Upload a single collection from the seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, a, opts, args[0])
		},
	}

	for _, c := range []*cobra.Command{cmd, collectionCmd} {
		c.Flags().BoolVar(&opts.clear, "clear", false, "delete existing documents before uploading")
		c.Flags().BoolVar(&opts.force, "force", false, "allow --clear when app.env is production")
		c.Flags().BoolVar(&opts.dryRun, "dry-run", false, "upload into an in-memory store instead of the configured one")
		c.Flags().StringVar(&opts.seedPath, "seed", "", "seed file (JSON or YAML); defaults to seed.path")
	}
	cmd.AddCommand(collectionCmd)
	return cmd
}

func runUpload(cmd *cobra.Command, a *app, opts *uploadOptions, collection string) error {
	ctx := cmd.Context()
	log := a.logger

	if opts.clear && a.cfg.IsProduction() && !opts.force {
		return fmt.Errorf("refusing to clear collections in production without --force")
	}
	if collection != "" && !content.IsKnownCollection(collection) {
		return fmt.Errorf("unknown collection %q (known: %v)", collection, content.Collections)
	}

	path := opts.seedPath
	if path == "" {
		path = a.cfg.Seed.Path
	}
	s, err := seed.LoadSeed(path)
	if err != nil {
		return err
	}
	if len(s.Ignored) > 0 {
		log.Warn("Ignoring unknown seed keys", zap.Strings("keys", s.Ignored))
	}

	store, closeStore, err := openUploadStore(ctx, a, opts.dryRun)
	if err != nil {
		return err
	}
	defer closeStore()

	uploader, err := seed.NewUploader(store, seed.LogProgress(log), log)
	if err != nil {
		return err
	}
	orch := seed.NewOrchestrator(uploader, log)

	var results []content.UploadResult
	if collection == "" {
		results = orch.UploadAllData(ctx, s, opts.clear)
	} else {
		result, err := orch.UploadOne(ctx, s, collection, opts.clear)
		if err != nil {
			return err
		}
		results = []content.UploadResult{result}
	}

	fmt.Fprint(cmd.OutOrStdout(), seed.FormatResults(results))
	if seed.HasFailures(results) {
		return errUploadFailures
	}
	return nil
}

func openUploadStore(ctx context.Context, a *app, dryRun bool) (content.Store, func(), error) {
	if dryRun {
		a.logger.Info("Dry run, writing to an in-memory store")
		return persistence.NewMemoryStore(), func() {}, nil
	}
	return a.openStore(ctx, a.cfg, a.logger)
}
