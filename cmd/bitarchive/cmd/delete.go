package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	bitarchive "github.com/rachit9876/bitArchive"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <name>...",
	Short: "Delete images from the archive",
	Long:  "Removes images from the remote repository and evicts their local cache entries.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	arc, done, err := openArchive()
	if err != nil {
		return err
	}
	defer done()

	indexed := make(map[string]bitarchive.ImageRecord)
	for _, rec := range arc.Records() {
		indexed[rec.Name] = rec
	}

	for _, name := range args {
		rec, ok := indexed[name]
		if !ok {
			// Not in the local index; the version token is recovered
			// remotely during delete.
			rec = bitarchive.ImageRecord{Name: name}
		}
		if err := arc.DeleteImage(ctx, rec); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", name)
	}
	return nil
}
