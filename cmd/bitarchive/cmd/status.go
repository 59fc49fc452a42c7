package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show archive configuration and storage usage",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	arc, done, err := openArchive()
	if err != nil {
		return err
	}
	defer done()

	bytes, files, err := arc.Usage()
	if err != nil {
		return err
	}

	fmt.Printf("Images indexed: %d\n", len(arc.Records()))
	fmt.Printf("Cached files:   %d\n", files)
	fmt.Printf("Cache usage:    %s\n", humanBytes(bytes))
	return nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
