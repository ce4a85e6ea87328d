package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/nstehr/vimy/assault-core/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	envFiles   []string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:     "assault-core",
	Version: "dev",
	Short:   "Decision sidecar for leader/support assault squads",
	Long: `assault-core answers each simulation tick from the game mod with a
declarative action plan for every unit of an active assault mission.

It tracks squad roles, walks each mission through its phases (assemble,
rendezvous, stage, engage, retreat) and picks targets, keeping one
runtime record per mission.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, ".env files to load (default ./.env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the assault-core version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	})
}

// loadConfig applies .env files, the config file, then the --log-level flag.
func loadConfig() (config.Config, error) {
	if err := config.LoadEnv(envFiles...); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func setupLogging(cfg config.Config, w io.Writer) {
	lvl, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
	}))
	slog.SetDefault(logger)
}
