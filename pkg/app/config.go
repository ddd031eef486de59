package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tripcast-io/tripcast/pkg/log"
)

const configFlagName = "config"

// envPrefix is the prefix for environment variable overrides,
// e.g. TRIPCAST_SOURCE_POLL_INTERVAL maps to --source.poll-interval.
const envPrefix = "TRIPCAST"

var cfgFile string

// addConfigFlag adds the --config flag to the command and wires viper defaults
// for the given binary name.
func addConfigFlag(binaryName string, cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&cfgFile, configFlagName, "c", "",
		fmt.Sprintf("Path to the %s configuration file.", binaryName))

	cobra.OnInitialize(func() {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.SetConfigName(binaryName)
			viper.AddConfigPath(".")
			viper.AddConfigPath("./configs")
			if home, err := os.UserHomeDir(); err == nil {
				viper.AddConfigPath(filepath.Join(home, ".tripcast"))
			}
			viper.AddConfigPath("/etc/tripcast")
		}

		viper.SetEnvPrefix(envPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		viper.AutomaticEnv()
	})
}

// unmarshalConfig merges the config file, environment and flags into the
// option structs. Flags explicitly set on the command line win.
func unmarshalConfig(cmd *cobra.Command, opts NamedFlagSetOptions) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine unless one was named explicitly.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Debug("Loaded configuration file", "file", viper.ConfigFileUsed())
		viper.WatchConfig()
		viper.OnConfigChange(func(in fsnotify.Event) {
			log.Info("Configuration file changed; restart to apply", "file", in.Name)
		})
	}

	return viper.Unmarshal(opts)
}
