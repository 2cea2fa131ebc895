package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type PredictCmd struct {
	recordsPath string
	planting    domain.PlantingContext
	timeout     time.Duration
	load        AppLoader
	reporter    func() *export.Reporter
}

func NewPredictCmd(load AppLoader, reporter func() *export.Reporter) *cobra.Command {
	pc := &PredictCmd{load: load, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the yield of a planting from historical harvests",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.recordsPath, "records", "", "Path to a JSON file with historical farm records")
	cmd.Flags().StringVar(&pc.planting.CropType, "crop", "", "Crop being planted")
	cmd.Flags().StringVar(&pc.planting.PlantingDate, "planting-date", "", "Planting date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&pc.planting.Area, "area", 0, "Planted area in hectares")
	cmd.Flags().Float64Var(&pc.planting.Expenses, "expenses", 0, "Expected expenses for the season")
	cmd.Flags().StringVar(&pc.planting.InputsUsed, "inputs", "", "Fertilizers, seed and other inputs used")
	cmd.Flags().DurationVar(&pc.timeout, "timeout", 2*time.Minute, "Overall deadline for the prediction")

	_ = cmd.MarkFlagRequired("records")
	_ = cmd.MarkFlagRequired("crop")
	_ = cmd.MarkFlagRequired("planting-date")
	_ = cmd.MarkFlagRequired("area")

	return cmd
}

func (pc *PredictCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), pc.timeout)
	defer cancel()

	records, err := readRecordsFile(pc.recordsPath)
	if err != nil {
		return err
	}

	app, err := pc.load(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	prediction, err := app.Insights.PredictYield(ctx, pc.planting, records)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}
	return pc.reporter().YieldPrediction(prediction)
}
