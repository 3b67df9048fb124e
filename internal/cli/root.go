package cli

import (
	"fmt"
	"os"

	"github.com/JoodasCode/SlopWatch-sub001/internal/logging"
	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is stamped at build time
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool

	workspaceRoot string
	noStore       bool
	storePath     string
	noCache       bool
	logLevel      string
	logFormat     string

	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "slopwatch",
	Short: "SlopWatch - verify AI assistant claims against actual code",
	Long: `SlopWatch is a lie detector for AI coding assistants.

It extracts verifiable claims from assistant messages ("added error
handling", "fixed the null check", "made it responsive"), checks the
actual workspace files for the patterns those claims imply, and returns
a VERIFIED or LIE verdict with file-level evidence.

SlopWatch reads your files. It does not trust the transcript.`,
	SilenceErrors: true,
	SilenceUsage:  true,
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
		fmt.Printf("slopwatch v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.slopwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&workspaceRoot, "workspace", "w", ".", "workspace root to verify against")
	rootCmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "disable result persistence")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "SQLite database path (default: slopwatch.db)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable file content cache")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")

	// LLM flags
	rootCmd.PersistentFlags().BoolVar(&llmEnabled, "llm", false, "enable LLM verdict explanations")
	rootCmd.PersistentFlags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	rootCmd.PersistentFlags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("workspace.root", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

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

		viper.AddConfigPath(home + "/.slopwatch")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match SLOPWATCH_*
	viper.SetEnvPrefix("SLOPWATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// buildConfig assembles the runtime configuration from defaults, the
// config file and global flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if viper.ConfigFileUsed() != "" {
		if err := viper.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Workspace.Root = workspaceRoot
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	if noStore {
		cfg.Store.Enabled = false
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	cfg.Logging.Level = logLevel
	cfg.Logging.Format = logFormat

	if llmEnabled {
		if err := configureLLM(cfg); err != nil {
			return nil, err
		}
	}

	logging.Init(cfg.Logging.Level, cfg.Logging.Format)

	return cfg, nil
}

// configureLLM wires the explainer provider from flags and environment
func configureLLM(cfg *model.Config) error {
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.StrictEvidence = true // Always enforce

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return nil
}
