package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/khoahotran/portfolio/adapters/media_storage"
	"github.com/khoahotran/portfolio/adapters/persistence"
	"github.com/khoahotran/portfolio/internal/application/service"
	"github.com/khoahotran/portfolio/internal/config"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/logger"
	"github.com/khoahotran/portfolio/pkg/tracing"
)

// errUploadFailures makes the process exit non-zero after the report has
// already been printed.
var errUploadFailures = errors.New("upload finished with failures")

type storeOpener func(ctx context.Context, cfg config.Config, log logger.Logger) (content.Store, func(), error)

type archiveOpener func(cfg config.Config, log logger.Logger) (service.ArchiveStorage, error)

// app carries what every subcommand needs. Tests swap the openers.
type app struct {
	configDir   string
	cfg         config.Config
	logger      logger.Logger
	openStore   storeOpener
	openArchive archiveOpener
	shutdown    func(context.Context) error
}

func newApp() *app {
	return &app{
		openStore:   persistence.NewStore,
		openArchive: media_storage.NewCloudinaryAdapter,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "portfolioctl",
		Short: "Manage portfolio content in the record store",
		Long: `portfolioctl uploads the static seed data set into the record store,
snapshots the store to backup storage and provisions the admin owner.

Configuration is read from .env and config.yaml in --config-dir, then from
the environment.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configDir, "config-dir", ".", "directory holding .env and config.yaml")

	root.AddCommand(
		newUploadCmd(a),
		newBackupCmd(a),
		newOwnerCmd(a),
		newHashPasswordCmd(),
	)
	return root
}

// execute runs the command tree and tears down afterwards. Cobra skips
// PersistentPostRunE when RunE fails, so teardown cannot live there.
func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	defer a.teardown(context.WithoutCancel(ctx))
	return root.ExecuteContext(ctx)
}

func (a *app) setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(a.configDir)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.logger == nil {
		a.logger = logger.NewZapLogger(cfg.App.Env)
	}

	shutdown, err := tracing.Setup(cfg, a.logger, "portfolioctl")
	if err != nil {
		return err
	}
	a.shutdown = shutdown
	return nil
}

func (a *app) teardown(ctx context.Context) {
	if a.shutdown != nil {
		_ = a.shutdown(ctx)
		a.shutdown = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
