package command

import (
	"database/sql"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adamavenir/slackdump-render/internal/assets"
	"github.com/adamavenir/slackdump-render/internal/core"
	"github.com/adamavenir/slackdump-render/internal/db"
)

// CommandContext provides shared command resources.
type CommandContext struct {
	DB       *sql.DB
	Archive  core.Archive
	Config   core.Config
	Logger   *logrus.Logger
	Resolver *assets.Resolver
}

// GetContext resolves the archive, configuration and database for a command.
// Settings come from built-in defaults, then the environment (including a
// .env file next to the archive), then the config file, then flags.
func GetContext(cmd *cobra.Command, archivePath string) (*CommandContext, error) {
	archive, err := core.DiscoverArchive(archivePath, "")
	if err != nil {
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	config, err := core.LoadConfig(configPath, filepath.Join(archive.InputDir, ".env"))
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, &config)

	if config.Output != "" {
		archive, err = core.DiscoverArchive(archivePath, config.Output)
		if err != nil {
			return nil, err
		}
	}

	logger, err := newLogger(cmd.ErrOrStderr(), config.LogLevel)
	if err != nil {
		return nil, err
	}

	resolver, err := assets.NewResolver(archive.InputDir, archive.OutputDir, config.Ignore)
	if err != nil {
		return nil, err
	}

	conn, err := db.OpenArchive(archive.DBPath)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		DB:       conn,
		Archive:  archive,
		Config:   config,
		Logger:   logger,
		Resolver: resolver,
	}, nil
}

// Load reads the archive into the record model using the context's filters.
func (c *CommandContext) Load() (*db.Archive, error) {
	return db.LoadArchive(c.DB, db.LoadOptions{
		OnlyPublic: c.Config.OnlyPublic,
		Channels:   c.Config.Channels,
		Blobs:      c.Resolver,
		Logger:     c.Logger,
	})
}

func applyFlags(cmd *cobra.Command, config *core.Config) {
	flags := cmd.Flags()
	changed := func(name string) bool {
		flag := flags.Lookup(name)
		return flag != nil && flag.Changed
	}

	if changed("output") {
		config.Output, _ = flags.GetString("output")
	}
	if changed("only-public") {
		config.OnlyPublic, _ = flags.GetBool("only-public")
	}
	if changed("channels") {
		config.Channels, _ = flags.GetStringSlice("channels")
	}
	if changed("workers") {
		workers, _ := flags.GetInt("workers")
		if workers > 0 {
			config.Workers = workers
		}
	}
	if changed("no-index") {
		config.NoIndex, _ = flags.GetBool("no-index")
	}
	if changed("log-level") {
		config.LogLevel, _ = flags.GetString("log-level")
	}
}

func newLogger(out io.Writer, level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(parsed)
	return logger, nil
}
