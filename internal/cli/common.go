package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"shipout/internal/backup"
	"shipout/internal/config"
	"shipout/internal/engine"
	"shipout/internal/fsops"
	"shipout/internal/logging"
	"shipout/internal/manifest"
)

// defaultConfigFile is picked up from the working directory when --config
// is not given. Its absence is not an error.
const defaultConfigFile = "shipout.yaml"

type app struct {
	cfg    *config.Config
	engine *engine.Engine
	logger *zap.Logger
}

// newApp resolves configuration (file, then flag overrides) and wires up
// the engine and its collaborators.
func newApp() (*app, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	fs := fsops.NewRealFS()
	clock := clockwork.NewRealClock()
	store := manifest.NewFileStore(fs, cfg.ManifestPath(), clock, logger)
	archiver := backup.NewArchiver(fs, logger)

	return &app{
		cfg:    cfg,
		engine: engine.New(fs, store, archiver, clock, logger),
		logger: logger,
	}, nil
}

func resolveConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	switch {
	case flagConfig != "":
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
	default:
		cfg, err = config.Load(defaultConfigFile)
		if errors.Is(err, os.ErrNotExist) {
			cfg = config.Default()
		} else if err != nil {
			return nil, err
		}
	}

	// Flags win over the config file.
	if flagSource != "" {
		cfg.Paths.Source = flagSource
	}
	if flagDest != "" {
		cfg.Paths.Dest = flagDest
	}
	if flagManifest != "" {
		cfg.Paths.Manifest = flagManifest
	}
	if rootCmd.PersistentFlags().Changed("backup") {
		cfg.Backup.Enabled = flagBackup
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) deployRequest(dryRun bool) *engine.DeployRequest {
	return &engine.DeployRequest{
		SourceDir:  a.cfg.Paths.Source,
		DestRoot:   a.cfg.Paths.Dest,
		DryRun:     dryRun,
		Backup:     a.cfg.Backup.Enabled,
		BackupDir:  a.cfg.BackupDir(),
		BackupKeep: a.cfg.Backup.Keep,
	}
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func outputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
