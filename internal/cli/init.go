package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imkarma/pland/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter pland.yaml",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	if err := config.Save(configPath, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Printf("Wrote %s. Start the service with: pland serve\n", configPath)
	return nil
}
