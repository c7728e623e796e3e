package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"ghostwriter/config"
	"ghostwriter/generator"
	"ghostwriter/logging"
	"ghostwriter/scraper"
	"ghostwriter/server"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "ghostwriter",
	Short:         "Generate social posts in the voice of a public profile",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logging.Init(verbose)
		config.LoadEnv()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE:  serveAction,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Scrape a profile and print ten posts about a topic",
	RunE:  generateAction,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("ghostwriter %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.json", "path to config file (.json or .yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")

	serveCmd.Flags().String("addr", "", "http listen address (overrides config.server_addr)")

	generateCmd.Flags().String("url", "", "profile URL to scrape")
	generateCmd.Flags().String("topic", "", "topic of the posts")
	generateCmd.Flags().Bool("json", false, "print posts as a JSON array")
	_ = generateCmd.MarkFlagRequired("url")
	_ = generateCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(serveCmd, generateCmd, versionCmd)
}

func serveAction(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	srv, err := server.New(pipeline)
	if err != nil {
		return err
	}

	listen := cfg.ServerAddr
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		listen = addr
	}
	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("[Main] Starting web server",
		slog.String("addr", listen),
		slog.String("scraper", cfg.Scraper.Provider),
		slog.String("llm", cfg.LLM.Provider))
	return httpSrv.ListenAndServe()
}

func generateAction(cmd *cobra.Command, _ []string) error {
	url, _ := cmd.Flags().GetString("url")
	topic, _ := cmd.Flags().GetString("topic")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	posts, err := pipeline.Run(cmd.Context(), generator.Request{URL: url, Topic: topic})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(posts)
	}
	for i, p := range posts {
		fmt.Fprintf(out, "--- %d ---\n%s\n\n", i+1, p)
	}
	return nil
}

func buildPipeline(cfg config.Config) (*generator.Pipeline, error) {
	llm, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}
	agent, err := generator.NewAgent(llm)
	if err != nil {
		return nil, err
	}
	source, err := scraper.New(cfg.Scraper)
	if err != nil {
		return nil, err
	}
	return generator.NewPipeline(source, agent)
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return nil, errors.New("llm config missing; please set llm.provider/model/api_key_env in config")
	}
	switch cfg.LLM.Provider {
	case "mock":
		return generator.MockLLM{}, nil
	case "openai", "anthropic", "openrouter", "deepseek":
		// DeepSeek only exposes an OpenAI-compatible endpoint, so base_url is mandatory.
		if cfg.LLM.Provider == "deepseek" && cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		temperature := config.DefaultTemperature
		if cfg.LLM.Temperature != nil {
			temperature = *cfg.LLM.Temperature
		}
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider:    cfg.LLM.Provider,
			Model:       cfg.LLM.Model,
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: temperature,
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
