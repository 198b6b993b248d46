package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/spacesedan/reviewcloud/config"
	"github.com/spacesedan/reviewcloud/internal/logging"
)

var settings config.Settings

var rootCmd = &cobra.Command{
	Use:   "reviewcloud",
	Short: "Korean review word clouds and marketing insight reports",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "dev"
		}
		config.LoadEnv(env)
		settings = config.Load()
		logging.InitLogger(settings.LogLevel)
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, analyzeCmd)
	if err := rootCmd.Execute(); err != nil {
		slog.Error("[Main] Command failed",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}
