package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	bitarchive "github.com/rachit9876/bitArchive"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credentials and configuration",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	kv, done, err := openKV()
	if err != nil {
		return err
	}
	defer done()

	if err := bitarchive.ClearConfig(kv); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}
