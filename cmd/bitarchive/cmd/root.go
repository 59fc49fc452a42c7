package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	bitarchive "github.com/rachit9876/bitArchive"
	"github.com/rachit9876/bitArchive/internal/configstore"
)

const keyringService = "bitarchive"

var rootCmd = &cobra.Command{
	Use:   "bitarchive",
	Short: "Private image archive backed by a GitHub repository",
	Long:  "CLI for uploading, listing and deleting images stored as content-addressed blobs in a private GitHub repository.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, bitarchive.ErrorMessage(err))
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/bitarchive/config.yaml)")
	rootCmd.PersistentFlags().String("cache-dir", "", "cache directory (default: ~/.local/share/bitarchive)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose logging")

	viper.BindPFlag("cache_dir", rootCmd.PersistentFlags().Lookup("cache-dir"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BITARCHIVE")
	viper.AutomaticEnv()
	viper.SetDefault("cache_dir", bitarchive.DefaultCacheDir())

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bitarchive")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "bitarchive")
	}
	return ".bitarchive"
}

func getCacheDir() string {
	return viper.GetString("cache_dir")
}

func logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// openKV picks the config backend: the OS keyring when one is usable,
// otherwise a bolt file next to the CLI config.
func openKV() (configstore.KV, func(), error) {
	kr := configstore.NewKeyring(keyringService)
	if kr.Available() {
		return kr, func() {}, nil
	}
	db, err := configstore.OpenBolt(filepath.Join(configDir(), "config.db"))
	if err != nil {
		return nil, nil, err
	}
	return db, func() { db.Close() }, nil
}

func loadConfig() (bitarchive.Config, func(), error) {
	kv, done, err := openKV()
	if err != nil {
		return bitarchive.Config{}, nil, err
	}
	cfg, err := bitarchive.LoadConfig(kv)
	if err != nil {
		done()
		if err == bitarchive.ErrNoConfig {
			return bitarchive.Config{}, nil, fmt.Errorf("no configuration found, run \"bitarchive setup\" first")
		}
		return bitarchive.Config{}, nil, err
	}
	return cfg, done, nil
}

func openArchive() (*bitarchive.Archive, func(), error) {
	cfg, done, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	arc, err := bitarchive.Open(cfg,
		bitarchive.WithCacheDir(getCacheDir()),
		bitarchive.WithLogger(logger()),
	)
	if err != nil {
		done()
		return nil, nil, err
	}
	cleanup := func() {
		if err := arc.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "warning:", err)
		}
		done()
	}
	return arc, cleanup, nil
}
