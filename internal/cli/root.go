// Package cli wires the claimlens commands: analyze, rules, sync, serve,
// improve and config.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/autoseat/claimlens/internal/model"
	"github.com/autoseat/claimlens/internal/rules"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimlens",
	Short: "Claimlens - warranty claim cleaning, classification and analytics",
	Long: `Claimlens ingests raw warranty claim exports (CSV, English or Korean
headers), cleans and classifies every claim against a versioned keyword
taxonomy, and derives the analytics a quality team works from: Pareto
breakdowns, monthly trends, cost spike alerts, importance ranking and a
short-range forecast.

Claims can be kept in sync with a shared claims server, optionally
refined through an AI classification service, and exported as JSON or
CSV for further processing.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. The context carries interrupt handling so
// long-running commands (serve, sync watch) stop cleanly on ctrl-c.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("claimlens v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads the config file and CLAIMLENS_* environment variables.
// A .env file in the working directory is loaded first so local setups can
// keep tokens out of the shell profile.
func initConfig() {
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".claimlens"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("CLAIMLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration: defaults overlaid with
// config file and environment values, with home-relative paths expanded
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	setString := func(key string, target *string) {
		if viper.IsSet(key) {
			*target = viper.GetString(key)
		}
	}
	setBool := func(key string, target *bool) {
		if viper.IsSet(key) {
			*target = viper.GetBool(key)
		}
	}

	setString("remote.base_url", &cfg.Remote.BaseURL)
	setString("remote.token", &cfg.Remote.Token)
	setString("remote.http_proxy", &cfg.Remote.HTTPProxy)
	setString("remote.https_proxy", &cfg.Remote.HTTPSProxy)
	if viper.IsSet("remote.timeout") {
		cfg.Remote.Timeout = viper.GetDuration("remote.timeout")
	}
	if viper.IsSet("remote.retry_delay") {
		cfg.Remote.RetryDelay = viper.GetDuration("remote.retry_delay")
	}

	setString("enrich.provider", &cfg.Enrich.Provider)
	setString("enrich.model", &cfg.Enrich.Model)
	setString("enrich.api_key", &cfg.Enrich.APIKey)
	setString("enrich.base_url", &cfg.Enrich.BaseURL)
	if viper.IsSet("enrich.timeout") {
		cfg.Enrich.Timeout = viper.GetDuration("enrich.timeout")
	}
	if viper.IsSet("enrich.batch_size") {
		cfg.Enrich.BatchSize = viper.GetInt("enrich.batch_size")
	}
	if viper.IsSet("enrich.rate_per_sec") {
		cfg.Enrich.RatePerSec = viper.GetFloat64("enrich.rate_per_sec")
	}
	if viper.IsSet("enrich.workers") {
		cfg.Enrich.Workers = viper.GetInt("enrich.workers")
	}
	if cfg.Enrich.APIKey == "" {
		cfg.Enrich.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	setString("server.addr", &cfg.Server.Addr)
	setString("server.token", &cfg.Server.Token)
	setString("server.db_path", &cfg.Server.DBPath)

	setString("rules.path", &cfg.Rules.Path)
	setBool("cache.enabled", &cfg.Cache.Enabled)
	setString("cache.dir", &cfg.Cache.Dir)
	if viper.IsSet("cache.memory_ttl") {
		cfg.Cache.MemoryTTL = viper.GetDuration("cache.memory_ttl")
	}
	if viper.IsSet("cache.disk_ttl") {
		cfg.Cache.DiskTTL = viper.GetDuration("cache.disk_ttl")
	}

	cfg.Output.Verbose = verbose || viper.GetBool("output.verbose")

	if home, err := os.UserHomeDir(); err == nil {
		if cfg.Rules.Path == "" {
			cfg.Rules.Path = filepath.Join(home, ".claimlens", "rules.json")
		}
		if cfg.Cache.Dir == "" {
			cfg.Cache.Dir = filepath.Join(home, ".claimlens", "cache")
		}
	}

	return cfg
}

// newLogger builds the zap logger commands share. Verbose runs get the
// development console encoder, quiet runs errors only.
func newLogger(cfg *model.Config) *zap.Logger {
	var zapCfg zap.Config
	if cfg.Output.Verbose {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openRuleStore opens the persistent rule store at the configured path
func openRuleStore(cfg *model.Config) *rules.Store {
	return rules.NewStore(rules.NewFilePersistence(cfg.Rules.Path))
}

func formatTimestamp(ts string) string {
	if ts == "" {
		return "never"
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Local().Format("2006-01-02 15:04:05")
	}
	return ts
}
