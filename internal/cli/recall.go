package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recall",
		Short: "Retrieve a memory",
		Long:  "Retrieve a memory by key, checking hot, warm, then cold. A warm or cold hit is promoted back into the hot tier.",
		Run:   runRecall,
	}

	cmd.Flags().StringP("key", "k", "", "Key (required)")
	cmd.MarkFlagRequired("key")

	RootCmd.AddCommand(cmd)
}

func runRecall(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")

	m, err := openMemory()
	if err != nil {
		exitErr("open memory", err)
	}
	defer m.Close()

	entry, ok, err := m.Recall(cmd.Context(), key)
	if err != nil {
		exitErr("recall", err)
	}
	if !ok {
		fmt.Println("null")
		return
	}

	b, _ := json.MarshalIndent(entry, "", "  ")
	fmt.Println(string(b))
}
