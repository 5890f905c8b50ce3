package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/geolore/internal/model"
)

// Version is set at build time
var Version = "v0.3.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "geolore",
	Short: "geolore - encyclopedia facts and history for map features",
	Long: `geolore resolves map features (countries, cities, rivers, lakes, seas,
straits) to their Wikipedia articles, extracts infobox statistics, and
places "on this day" historical events on the map.

It backs an interactive map over HTTP (geolore serve) and can be used
directly from the command line to inspect what a feature resolves to.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("geolore %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.geolore/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("wiki", "", "encyclopedia base URL (default https://en.wikipedia.org)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("wiki.base_url", rootCmd.PersistentFlags().Lookup("wiki"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".geolore"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(model.DefaultConfig())

	// GEOLORE_WIKI_BASE_URL overrides wiki.base_url, and so on
	viper.SetEnvPrefix("GEOLORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env variables can reach it
func setDefaults(cfg *model.Config) {
	viper.SetDefault("wiki.base_url", cfg.Wiki.BaseURL)
	viper.SetDefault("wiki.rest_base_url", cfg.Wiki.RESTBaseURL)
	viper.SetDefault("wiki.user_agent", cfg.Wiki.UserAgent)
	viper.SetDefault("wiki.timeout", cfg.Wiki.Timeout)
	viper.SetDefault("wiki.thumb_size", cfg.Wiki.ThumbSize)
	viper.SetDefault("wiki.max_body_bytes", cfg.Wiki.MaxBodyBytes)
	viper.SetDefault("wiki.requests_per_second", cfg.Wiki.RequestsPerSecond)
	viper.SetDefault("wiki.burst", cfg.Wiki.Burst)
	viper.SetDefault("wiki.respect_robots", cfg.Wiki.RespectRobots)
	viper.SetDefault("wiki.http_proxy", cfg.Wiki.HTTPProxy)
	viper.SetDefault("wiki.https_proxy", cfg.Wiki.HTTPSProxy)
	viper.SetDefault("resolver.max_stats", cfg.Resolver.MaxStats)
	viper.SetDefault("events.workers", cfg.Events.Workers)
	viper.SetDefault("fallback.max_stats", cfg.Fallback.MaxStats)
	viper.SetDefault("fallback.card_max_stats", cfg.Fallback.CardMaxStats)
	viper.SetDefault("server.addr", cfg.Server.Addr)
	viper.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	viper.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	viper.SetDefault("describe.provider", cfg.Describe.Provider)
	viper.SetDefault("describe.model", cfg.Describe.Model)
	viper.SetDefault("describe.api_key", cfg.Describe.APIKey)
	viper.SetDefault("describe.base_url", cfg.Describe.BaseURL)
	viper.SetDefault("log_level", cfg.LogLevel)
}

// loadConfig merges defaults, config file, environment and bound flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Describe.APIKey == "" {
		cfg.Describe.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

func setupLogger() {
	level := parseLevel(viper.GetString("log_level"))
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
