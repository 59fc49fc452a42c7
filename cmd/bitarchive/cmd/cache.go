package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local image cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached image files",
	Long:  "Deletes cached/temporary images from this machine. Images in the remote repository are not affected.",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	arc, done, err := openArchive()
	if err != nil {
		return err
	}
	defer done()

	cleared, err := arc.ClearCache()
	if err != nil {
		return err
	}
	plural := "s"
	if cleared == 1 {
		plural = ""
	}
	fmt.Printf("Cleared %d cached image%s.\n", cleared, plural)
	return nil
}
