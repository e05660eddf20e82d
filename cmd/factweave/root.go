package main

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/factweave/factweave/pkg/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "factweave",
		Short: "Consolidate extracted candidate facts into entity records",
		Long: `factweave resolves extracted candidate facts against an existing corpus
of entity records: fuzzy-matching names, diffing fields, respecting
human-confirmed values, and emitting a change set of creates, updates,
merges, and review proposals.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env is optional; missing files are not an error.
			_ = godotenv.Load()

			viper.SetEnvPrefix("FACTWEAVE")
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			viper.AutomaticEnv()
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}

			if level, err := zerolog.ParseLevel(viper.GetString("log-level")); err == nil {
				zerolog.SetGlobalLevel(level)
				logging.SetDefault(logging.Default().Level(level))
			}
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().String("project", "default", "project the records belong to")

	root.AddCommand(newConsolidateCmd())
	root.AddCommand(newVersionCmd())

	return root
}
