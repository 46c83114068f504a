package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adfuel/bidkeeper/pkg/logger"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run one evaluation pass over all campaigns",
	Long:  `Evaluates every active rule against every campaign, stores the resulting bid recommendations, and prints a report to stdout.`,
	RunE:  runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().Bool("dry-run", false, "compute recommendations without storing them")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	service, _, err := buildService(cfg, database, log)
	if err != nil {
		return err
	}

	report, err := service.RunEvaluation(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
