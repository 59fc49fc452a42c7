package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Refresh and list archived images",
	Long:  "Fetches the remote listing, mirrors it into the local cache and prints the image index in remote order.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().Bool("offline", false, "print the last synced index without contacting the remote")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	arc, done, err := openArchive()
	if err != nil {
		return err
	}
	defer done()

	offline, _ := cmd.Flags().GetBool("offline")
	records := arc.Records()
	if !offline {
		records, err = arc.RefreshImages(context.Background())
		if err != nil {
			return err
		}
	}

	if len(records) == 0 {
		fmt.Println("(no images)")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%s\t%d bytes\t%s\n", rec.Name, rec.Size, rec.LocalPath)
	}
	return nil
}
