// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/logger"
)

const (
	envPrefix         = "SATEXT"
	configKey         = "config"
	defaultConfigPath = "./etc/"
)

var rootCmd = &cobra.Command{
	Use:   "satext",
	Short: "satext sends group text messages for corps",
	Long: `satext lets approved corps members send text messages to the
distribution groups of their corps and manage who is in them.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String(configKey, defaultConfigPath, "directory holding main.toml")

	if err := viper.BindPFlag(configKey, rootCmd.PersistentFlags().Lookup(configKey)); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration from the --config directory (or
// SATEXT_CONFIG) and initializes the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.ReadConfig(configPath())
	if err != nil {
		return nil, err
	}

	if err = logger.Init(cfg.Log); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func configPath() string {
	p := viper.GetString(configKey)
	if p == "" {
		return defaultConfigPath
	}

	if p[len(p)-1] != '/' {
		p += "/"
	}

	return p
}
