package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/factweave/factweave"
	"github.com/factweave/factweave/pkg/consolidator"
	"github.com/factweave/factweave/pkg/entities"
	"github.com/factweave/factweave/pkg/errors"
	"github.com/factweave/factweave/pkg/store"
)

func newConsolidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Consolidate a batch of extracted candidates against a corpus",
		Long: `Reads extracted candidates (and optionally an existing corpus) from YAML
files, runs consolidation, and prints the resulting change set. With
--apply the changes are written back to the corpus store.`,
		RunE: runConsolidate,
	}

	cmd.Flags().String("candidates", "", "YAML file with extracted candidates (required)")
	cmd.Flags().String("corpus", "", "YAML file with existing entity records")
	cmd.Flags().String("thresholds", "", "YAML file with a threshold policy")
	cmd.Flags().Int("workers", 0, "max concurrent type groups (default 5)")
	cmd.Flags().String("review-policy", "", "ambiguous-band handling: update or proposal")
	cmd.Flags().Bool("apply", false, "apply the change set to the store")
	cmd.Flags().String("output", "", "write the change set as YAML to this file")
	_ = cmd.MarkFlagRequired("candidates")

	return cmd
}

func runConsolidate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	project := viper.GetString("project")

	candidates, err := loadCandidates(viper.GetString("candidates"))
	if err != nil {
		return err
	}

	memory := store.NewMemory()
	if corpusPath := viper.GetString("corpus"); corpusPath != "" {
		if err := seedCorpus(cmd, memory, project, corpusPath); err != nil {
			return err
		}
	}

	opts := []factweave.Option{factweave.WithStore(memory)}
	if path := viper.GetString("thresholds"); path != "" {
		opts = append(opts, factweave.WithThresholdFile(path))
	}
	if workers := viper.GetInt("workers"); workers > 0 {
		opts = append(opts, factweave.WithWorkers(workers))
	}
	if policy := viper.GetString("review-policy"); policy != "" {
		opts = append(opts, factweave.WithReviewPolicy(consolidator.ReviewPolicy(policy)))
	}

	engine, err := factweave.New(opts...)
	if err != nil {
		return err
	}

	result, err := engine.Consolidate(ctx, project, candidates)
	if err != nil {
		return err
	}

	printResult(out, result)

	if path := viper.GetString("output"); path != "" {
		if err := writeChanges(path, result.Changes); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nChange set written to %s\n", path)
	}

	if viper.GetBool("apply") {
		report, err := engine.Apply(ctx, project, result.Changes)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nApplied: %d created, %d updated, %d merged, %d queued for review, %d failures\n",
			report.Created, report.Updated, report.Merged, report.Queued, len(report.Failures))
		for _, failure := range report.Failures {
			fmt.Fprintf(out, "  failed: %v\n", failure)
		}
	}

	return nil
}

func loadCandidates(path string) ([]entities.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	var candidates []entities.Candidate
	if err := yaml.Unmarshal(data, &candidates); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return candidates, nil
}

func seedCorpus(cmd *cobra.Command, memory *store.Memory, project, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	var records []entities.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	for _, record := range records {
		if _, err := memory.Put(cmd.Context(), project, record); err != nil {
			return err
		}
	}
	return nil
}

func writeChanges(path string, changes []consolidator.Change) error {
	data, err := yaml.Marshal(changes)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printResult(out io.Writer, result *consolidator.Result) {
	fmt.Fprintf(out, "Consolidated in %s\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Totals: %d creates, %d updates, %d merges, %d proposals, %d skips (mean confidence %.2f)\n",
		result.Totals.Creates, result.Totals.Updates, result.Totals.Merges,
		result.Totals.Proposals, result.Totals.Skips, result.Totals.MeanConfidence)

	for typ, changes := range result.ByType() {
		fmt.Fprintf(out, "\n%s:\n", typ)
		for _, change := range changes {
			fmt.Fprintf(out, "  %-8s %s\n", change.Operation, change.Rationale)
		}
	}

	for _, err := range result.Errors {
		fmt.Fprintf(out, "\nwarning: %v\n", err)
	}
}
