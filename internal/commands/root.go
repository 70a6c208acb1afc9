// internal/commands/root.go
package beypal

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/beypal/internal/appconfig"
	"github.com/mwiater/beypal/internal/logging"
)

var (
	cfgFile       string
	envFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// stringFlags maps persistent string flags to their configuration keys.
var stringFlags = map[string]string{
	"logFile":     "logFile",
	"dataset":     "dataset",
	"listen":      "listen",
	"provider":    "provider.type",
	"model":       "provider.model",
	"providerURL": "provider.url",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "beypal",
	Short: "beypal: Beyblade X combo advisor grounded on a CSV dataset",
	Long: `beypal answers questions about Beyblade X combos. Each question is matched
against the active combo dataset and the best records are sent to the
configured language model as context.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnv(cmd); err != nil {
			return err
		}
		loaded, err := ensureConfigLoaded()
		if err != nil {
			return err
		}
		if loaded {
			if err := appconfig.ValidateFile(viper.ConfigFileUsed()); err != nil {
				return err
			}
		}

		syncFlag(cmd, "debug", strconv.FormatBool(viper.GetBool("debug")))
		for name, key := range stringFlags {
			syncFlag(cmd, name, viper.GetString(key))
		}
		syncFlag(cmd, "timeout", strconv.Itoa(viper.GetInt("timeout")))

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		if loaded {
			cfg.ConfigPath = viper.ConfigFileUsed()
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath(), logConsole(cmd, currentConfig)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with API keys")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Int("timeout", 0, "LLM request timeout in seconds (0 = default)")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("dataset", "", "CSV dataset to load instead of the embedded one")
	rootCmd.PersistentFlags().String("listen", "", "HTTP listen address for serve")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider: gemini, openai or ollama")
	rootCmd.PersistentFlags().String("model", "", "model name for the provider")
	rootCmd.PersistentFlags().String("providerURL", "", "override the provider endpoint")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	for name, key := range stringFlags {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetConfigFile(appconfig.ResolvePath(cfgFile))
}

// ensureConfigLoaded reads the config file. A missing file is not an error;
// defaults and flags apply.
func ensureConfigLoaded() (bool, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load config: %w", err)
	}
	return true, nil
}

// syncFlag copies a config value into a flag the user did not set, so
// commands reading flags see the merged value.
func syncFlag(cmd *cobra.Command, name, value string) {
	f := cmd.Flag(name)
	if f == nil || f.Changed {
		return
	}
	_ = f.Value.Set(value)
}

// loadEnv loads the dotenv file. The default file is optional; one named
// with --env must exist.
func loadEnv(cmd *cobra.Command) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		if f := cmd.Flag("env"); errors.Is(err, fs.ErrNotExist) && (f == nil || !f.Changed) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", envFile, err)
	}
	return nil
}

// logConsole mirrors log lines to stderr in debug mode, except for the TUI.
func logConsole(cmd *cobra.Command, cfg *appconfig.Config) io.Writer {
	if !cfg.Debug || cmd.Name() == chatCmd.Name() {
		return nil
	}
	return cmd.ErrOrStderr()
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
