package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"AIToolbox/internal/config"
)

var (
	configPath string
	envFile    string
	flagCfg    = config.Default()
)

var rootCmd = &cobra.Command{
	Use:           "aitoolbox",
	Short:         "AI Toolbox - chat, images, search and writing tools over Gemini",
	Long:          `AI Toolbox serves a set of generative-AI tools (chat, image generation and editing, grounded search, recipes, code, stories, summaries) over a local HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "TOML config file")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file with GEMINI_API_KEY and friends")
	pf.BoolVar(&flagCfg.Debug, "debug", false, "Enable debug logging")
	pf.StringVar(&flagCfg.Backend, "backend", flagCfg.Backend, "AI backend (gemini|ollama)")
	pf.StringVar(&flagCfg.OllamaModel, "ollama-model", flagCfg.OllamaModel, "Ollama model specification (format: model:version)")
	pf.StringVar(&flagCfg.DBPath, "db", flagCfg.DBPath, "SQLite database path")
	pf.StringVar(&flagCfg.LogDir, "log-dir", flagCfg.LogDir, "Directory for logs, traces and metrics")

	rootCmd.AddCommand(serveCmd, statsCmd, translateCmd)
}

// loadConfig layers defaults, the TOML file, the environment and then any
// flag the user set explicitly
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		if err := config.LoadFile(&cfg, configPath); err != nil {
			return cfg, err
		}
	}
	if err := config.ApplyEnv(&cfg, envFile); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = flagCfg.Debug
	}
	if flags.Changed("backend") {
		cfg.Backend = flagCfg.Backend
	}
	if flags.Changed("ollama-model") {
		cfg.OllamaModel = flagCfg.OllamaModel
	}
	if flags.Changed("db") {
		cfg.DBPath = flagCfg.DBPath
	}
	if flags.Changed("log-dir") {
		cfg.LogDir = flagCfg.LogDir
	}
	if flags.Changed("addr") {
		cfg.Addr = flagCfg.Addr
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
