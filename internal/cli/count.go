package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count memories across all tiers",
		Long:  "Sum of per-tier counts. A promoted entry is counted in each tier that holds a copy.",
		Run:   runCount,
	}

	RootCmd.AddCommand(cmd)
}

func runCount(cmd *cobra.Command, args []string) {
	m, err := openMemory()
	if err != nil {
		exitErr("open memory", err)
	}
	defer m.Close()

	n, err := m.Count(cmd.Context())
	if err != nil {
		exitErr("count", err)
	}

	fmt.Printf("{\"count\":%d}\n", n)
}
