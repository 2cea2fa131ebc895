package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type AnalyzeCmd struct {
	recordsPath string
	collection  string
	timeout     time.Duration
	load        AppLoader
	reporter    func() *export.Reporter
}

func NewAnalyzeCmd(load AppLoader, reporter func() *export.Reporter) *cobra.Command {
	ac := &AnalyzeCmd{load: load, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze costs against profit for a set of farm records",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.recordsPath, "records", "", "Path to a JSON file with farm records")
	cmd.Flags().StringVar(&ac.collection, "collection", "", "Collection (farmer) id to load from the record source")
	cmd.Flags().DurationVar(&ac.timeout, "timeout", 2*time.Minute, "Overall deadline for the analysis")
	cmd.MarkFlagsOneRequired("records", "collection")
	cmd.MarkFlagsMutuallyExclusive("records", "collection")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), ac.timeout)
	defer cancel()

	app, err := ac.load(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	var records []domain.FarmRecord
	if ac.recordsPath != "" {
		records, err = readRecordsFile(ac.recordsPath)
	} else {
		if app.Records == nil {
			return domain.Errorf(domain.KindConfiguration, "no record source configured; set source.kind")
		}
		records, err = app.Records.LoadRecords(ctx, ac.collection)
	}
	if err != nil {
		return err
	}

	analysis, err := app.Insights.AnalyzeCosts(ctx, records)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return ac.reporter().CostAnalysis(analysis)
}
