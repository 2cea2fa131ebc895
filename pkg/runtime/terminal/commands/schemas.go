package commands

import (
	"github.com/de-tools/farm-insights/pkg/runtime/terminal/export"
	"github.com/de-tools/farm-insights/pkg/services/schema"
	"github.com/spf13/cobra"
)

func NewSchemasCmd(reporter func() *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the output contracts the model must satisfy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reporter().Schemas(schema.All())
		},
	}
}
