// Command captionctl sends images and videos to the caption service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "captionctl",
		Short:         "Describe images and videos with the caption service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("url", "http://localhost:8888", "Caption service base URL")
	root.PersistentFlags().String("model", "minicpm-2.5", "Model identifier")
	root.PersistentFlags().String("question", "", "Follow-up question (optional)")
	root.PersistentFlags().Duration("timeout", 0, "Request timeout (default 10m)")

	root.AddCommand(newImageCmd(), newVideoCmd(), newModelsCmd())
	return root
}
