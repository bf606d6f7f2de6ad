package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check tier health",
		Long:  "Probe all three tiers. Exits nonzero when any tier is unhealthy.",
		Run:   runHealth,
	}

	RootCmd.AddCommand(cmd)
}

func runHealth(cmd *cobra.Command, args []string) {
	m, err := openMemory()
	if err != nil {
		exitErr("open memory", err)
	}
	defer m.Close()

	healthy := m.HealthCheck(cmd.Context())
	fmt.Printf("{\"healthy\":%t}\n", healthy)
	if !healthy {
		os.Exit(1)
	}
}
