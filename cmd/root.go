/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tieubaoca/prism-be/config"
	"github.com/tieubaoca/prism-be/logger"
	"github.com/tieubaoca/prism-be/service"
	"github.com/tieubaoca/prism-be/types"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "prism-be",
	Short: "Backend for exploring deep learning research papers",
	Long: `prism-be turns research papers into structured views: a roadmap of a
research topic, an annotated model graph, ablation predictions and quizzes.

Uploaded PDFs are parsed for text and embedded figures, the main
architecture diagram is picked by a generative model and the model it
shows is described as JSON.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config/config.yaml, then $HOME/.prism-be.yaml)")
}

// initConfig resolves which config file the subcommands load.
func initConfig() {
	if cfgFile != "" {
		return
	}
	if _, err := os.Stat("config/config.yaml"); err == nil {
		cfgFile = "config/config.yaml"
		return
	}

	// Find home directory.
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	// Search config in home directory with name ".prism-be" (without extension).
	viper.AddConfigPath(home)
	viper.SetConfigType("yaml")
	viper.SetConfigName(".prism-be")

	// If a config file is found, use it.
	if err := viper.ReadInConfig(); err == nil {
		cfgFile = viper.ConfigFileUsed()
		fmt.Fprintln(os.Stderr, "Using config file:", cfgFile)
	}
}

// loadConfig loads the config and builds the logger shared by every
// subcommand.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Mode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

// loadRuntime is loadConfig plus the generative backend. The returned func
// releases both.
func loadRuntime() (*config.Config, *logger.Logger, service.AIService, func(), error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	ai, closeAI, err := newAIService(cfg, log)
	if err != nil {
		log.Sync()
		return nil, nil, nil, nil, err
	}
	cleanup := func() {
		closeAI()
		log.Sync()
	}
	return cfg, log, ai, cleanup, nil
}

func newAIService(cfg *config.Config, log *logger.Logger) (service.AIService, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, types.ConfigError("invalid backend settings", err)
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		ai := service.NewOpenAIService(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.Model, log)
		log.Info("Using OpenAI backend", "model", cfg.Model, "base_url", cfg.OpenAI.BaseURL)
		return service.WithTimeout(ai, cfg.AITimeout), func() {}, nil
	default:
		ai, err := service.NewGeminiService(cfg.Gemini.APIKeys, cfg.Model, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		log.Info("Using Gemini backend", "model", cfg.Model, "keys", len(cfg.Gemini.APIKeys))
		closeFn := func() {
			if err := ai.Close(); err != nil {
				log.Warn("Failed to close gemini client", "error", err)
			}
		}
		return service.WithTimeout(ai, cfg.AITimeout), closeFn, nil
	}
}

func documentConfig(cfg *config.Config) types.DocumentServiceConfig {
	return types.DocumentServiceConfig{
		MinImageBytes: cfg.Extraction.MinImageBytes,
		MaxCandidates: cfg.Extraction.MaxCandidates,
	}
}

func newResearchService(cfg *config.Config, ai service.AIService, log *logger.Logger) *service.ResearchService {
	researchService := service.NewResearchService(ai, log)
	if cfg.Search.Enabled() {
		researchService.WithPaperSearch(service.NewSearchService(cfg.Search.APIKey, cfg.Search.EngineID))
	}
	return researchService
}
