package commands

import (
	"github.com/de-tools/farm-insights/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type AttemptsCmd struct {
	runID  string
	recent int
	load   AppLoader
	report func() *export.Reporter
}

func NewAttemptsCmd(load AppLoader, reporter func() *export.Reporter) *cobra.Command {
	ac := &AttemptsCmd{load: load, report: reporter}
	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "Show recorded generation attempts and their raw model output",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.runID, "run", "", "Run id to show")
	cmd.Flags().IntVar(&ac.recent, "recent", 10, "Number of recent attempts to show when --run is not set")

	return cmd
}

func (ac *AttemptsCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := ac.load(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if ac.runID != "" {
		attempts, err := app.Attempts.Attempts(ctx, ac.runID)
		if err != nil {
			return err
		}
		return ac.report().Attempts(attempts)
	}

	attempts, err := app.Attempts.RecentAttempts(ctx, ac.recent)
	if err != nil {
		return err
	}
	return ac.report().Attempts(attempts)
}
