package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	bitarchive "github.com/rachit9876/bitArchive"
	"github.com/rachit9876/bitArchive/internal/remote"
)

const defaultRepoName = "Bit-Archive-imgs"

var setupCmd = &cobra.Command{
	Use:   "setup <token>",
	Short: "Connect to GitHub and prepare the archive repository",
	Long: "Verifies the personal access token, finds or creates the archive repository " +
		"(a private repo named " + defaultRepoName + " by default) and saves the configuration.",
	Args: cobra.ExactArgs(1),
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().String("repo", "", "use an existing repository (owner/name) instead of the default")
	setupCmd.Flags().String("base-url", "", "custom public base URL for serving images")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	token := args[0]
	repoFlag, _ := cmd.Flags().GetString("repo")
	baseURL, _ := cmd.Flags().GetString("base-url")

	probe := remote.New(remote.Config{Token: token})
	fmt.Fprintln(os.Stderr, "Verifying token...")
	login, err := probe.VerifyToken(ctx)
	if err != nil {
		return err
	}

	cfg := bitarchive.Config{
		Token:   token,
		Repo:    repoFlag,
		BaseURL: baseURL,
	}
	if cfg.Repo == "" {
		cfg.Repo = login + "/" + defaultRepoName
	}
	rcfg, err := configToRemote(cfg)
	if err != nil {
		return err
	}
	client := remote.New(rcfg)

	fmt.Fprintf(os.Stderr, "Checking for %s...\n", cfg.Repo)
	branch, err := client.RepoInfo(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(os.Stderr, "Found existing %s.\n", cfg.Repo)
	case errors.Is(err, remote.ErrNotFound) && repoFlag == "":
		fmt.Fprintf(os.Stderr, "Creating %s...\n", cfg.Repo)
		branch, err = client.CreateRepo(ctx, "Private image archive powered by Bit Archive")
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Created %s.\n", cfg.Repo)
	default:
		return err
	}
	cfg.Branch = branch

	kv, done, err := openKV()
	if err != nil {
		return err
	}
	defer done()
	if err := bitarchive.SaveConfig(kv, cfg); err != nil {
		return err
	}

	fmt.Printf("Setup complete: %s (branch %s)\n", cfg.Repo, cfg.Branch)
	return nil
}

func configToRemote(cfg bitarchive.Config) (remote.Config, error) {
	owner, name, err := cfg.RepoParts()
	if err != nil {
		return remote.Config{}, err
	}
	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}
	return remote.Config{Token: cfg.Token, Owner: owner, Repo: name, Branch: branch}, nil
}
