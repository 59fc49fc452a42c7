package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	bitarchive "github.com/rachit9876/bitArchive"
	"github.com/rachit9876/bitArchive/internal/remote"
)

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Permanently delete the archive repository",
	Long: "Permanently deletes the configured repository from GitHub, including every image in it. " +
		"This cannot be undone. The token needs the delete_repo scope.",
	Args: cobra.NoArgs,
	RunE: runDestroy,
}

func init() {
	destroyCmd.Flags().Bool("yes", false, "skip the interactive confirmation")
	rootCmd.AddCommand(destroyCmd)
}

func runDestroy(cmd *cobra.Command, args []string) error {
	cfg, done, err := loadConfig()
	if err != nil {
		return err
	}
	defer done()

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		fmt.Fprintf(os.Stderr, "This will PERMANENTLY delete %q and all images in it.\nType the repository name to confirm: ", cfg.Repo)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(line) != cfg.Repo {
			return fmt.Errorf("confirmation did not match, aborting")
		}
	}

	rcfg, err := configToRemote(cfg)
	if err != nil {
		return err
	}
	if err := remote.New(rcfg).DeleteRepo(context.Background()); err != nil {
		return err
	}
	fmt.Printf("Repository %s deleted.\n", cfg.Repo)

	kv, kvDone, err := openKV()
	if err != nil {
		return err
	}
	defer kvDone()
	return bitarchive.ClearConfig(kv)
}
