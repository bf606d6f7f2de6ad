// Package cli implements the tiermem CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tiermem/tiermem/internal/config"
	"github.com/tiermem/tiermem/internal/memory"
)

var (
	storeDir   string
	configPath string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "tiermem",
	Short: "Tiered memory for personal assistants",
	Long:  "A three-tier key-value memory engine: bounded in-process hot cache, SQLite warm store, SQLite cold archive. Text in, JSON out.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&storeDir, "store", "s", "", "Store directory (default: $TIERMEM_HOME/store or ~/.tiermem/store)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $TIERMEM_HOME/config.yaml)")
}

func getStoreDir() string {
	if storeDir != "" {
		return storeDir
	}
	return config.StoreDir()
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	return config.Load(path)
}

func openMemory() (*memory.TieredMemory, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return memory.New(getStoreDir(), cfg.Migration, nil)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
