package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tiermem/tiermem/internal/memory"
	"github.com/tiermem/tiermem/internal/workspace"
)

func init() {
	cmd := &cobra.Command{
		Use:   "maintain",
		Short: "Run one migration pass",
		Long:  "Migrate age-eligible entries hot→warm and warm→cold, printing a maintenance report. With --workspace, also rotate that directory's MEMORY.md and clean its logs/ directory.",
		Run:   runMaintain,
	}

	cmd.Flags().StringP("workspace", "w", "", "Workspace directory to maintain alongside the tiers")
	cmd.Flags().Bool("verbose", false, "Log maintenance steps to stderr")

	RootCmd.AddCommand(cmd)
}

func runMaintain(cmd *cobra.Command, args []string) {
	wsDir, _ := cmd.Flags().GetString("workspace")
	verbose, _ := cmd.Flags().GetBool("verbose")

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}

	m, err := memory.New(getStoreDir(), cfg.Migration, log)
	if err != nil {
		exitErr("open memory", err)
	}
	defer m.Close()

	report, err := m.Maintain(cmd.Context())
	if err != nil {
		exitErr("maintain", err)
	}

	out := map[string]any{"tiers": report}

	if wsDir != "" {
		maintainer := workspace.NewMaintainer(
			workspace.NewArchiver(filepath.Join(wsDir, ".history"), cfg.Workspace.ArchiveThresholdLines),
			workspace.NewCleaner(filepath.Join(wsDir, "logs"), cfg.Workspace.LogMaxAgeDays),
			log,
		)
		out["workspace"] = maintainer.Run(wsDir)
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
