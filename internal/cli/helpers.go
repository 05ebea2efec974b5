package cli

import (
	"fmt"
	"os"

	"github.com/imkarma/pland/internal/config"
	"github.com/imkarma/pland/internal/store"
)

const configFileName = "pland.yaml"

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configFileName, "path to pland.yaml")
}

// mustConfig loads the config file, returning an error if pland is not
// initialized.
func mustConfig() (*config.Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no config at %s. Run: pland init", configPath)
	}
	return config.Load(configPath)
}

// mustStore opens the SQLite store named by the config.
func mustStore() (*store.Store, *config.Config, error) {
	cfg, err := mustConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := store.New(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}
