// Package cli provides the command-line interface for skillscope.
package cli

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/skillscope/dataset"
	"github.com/spektr-org/skillscope/insights"
	"github.com/spektr-org/skillscope/internal/config"
	"github.com/spektr-org/skillscope/internal/logging"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// sessionKey is used to store the session in the command context.
type sessionKey struct{}

// session carries what every command needs. The table is loaded on first
// use so commands that never touch it stay fast.
type session struct {
	cfg    *config.Config
	logger *zap.Logger

	once  sync.Once
	table *dataset.Table
	err   error
}

// Table loads the configured CSV once.
func (s *session) Table() (*dataset.Table, error) {
	s.once.Do(func() {
		s.table, s.err = dataset.LoadFile(s.cfg.DataPath, dataset.LoadOptions{
			SalaryPolicy: s.cfg.Policy(),
			Logger:       s.logger,
		})
	})
	return s.table, s.err
}

// Options returns the insights options derived from the configuration.
func (s *session) Options() []insights.Option {
	return []insights.Option{
		insights.WithTopN(s.cfg.TopN),
		insights.WithMapBins(s.cfg.MapBins),
		insights.WithOtherSkill(s.cfg.OtherSkill),
		insights.WithLogger(s.logger),
	}
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "skillscope",
		Short: "skillscope - Job posting skill explorer",
		Long: `skillscope explores a table of job postings by skill, state and work type.

It reports salary statistics, posting counts per state, top employers,
skill-to-experience flows and salary distributions, either as one-shot
commands, an interactive session or a JSON API.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "__complete", "version":
				return nil
			}

			_ = godotenv.Load()

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), sessionKey{}, &session{cfg: cfg, logger: logger})
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if s, ok := cmd.Context().Value(sessionKey{}).(*session); ok {
				_ = s.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./skillscope.yaml)")
	rootCmd.PersistentFlags().String("data", "", "Path to the job postings CSV")
	rootCmd.PersistentFlags().String("salary-policy", "", "Inverted salary handling (drop|swap|keep)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (console|json)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table|json|yaml|csv)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{formatTable, formatJSON, formatYAML, formatCSV}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newSummaryCommand(),
		newRegionsCommand(),
		newFlowCommand(),
		newCompaniesCommand(),
		newSalariesCommand(),
		newDashboardCommand(),
		newSkillsCommand(),
		newExploreCommand(),
		newServeCommand(),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// getSession retrieves the session from the command context.
func getSession(cmd *cobra.Command) (*session, error) {
	if s, ok := cmd.Context().Value(sessionKey{}).(*session); ok {
		return s, nil
	}
	return nil, fmt.Errorf("command %q ran without configuration", cmd.Name())
}
