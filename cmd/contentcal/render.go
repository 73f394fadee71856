package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vivaneiona/contentcal"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		fromJSON string
		footer   string
	)
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a calendar PDF from saved model output or an extracted document",
		Example: `  contentcal render output.txt -o calendar.pdf
  contentcal extract output.txt > doc.json && contentcal render --from-json doc.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc *contentcal.CalendarDocument
			if fromJSON != "" {
				d, err := readDocument(fromJSON)
				if err != nil {
					return err
				}
				if err := d.Validate(); err != nil {
					return fmt.Errorf("%s: %w", fromJSON, err)
				}
				doc = d
			} else {
				text, err := readInput(cmd.Context(), cmd.InOrStdin(), args, a)
				if err != nil {
					return err
				}
				doc = contentcal.NewExtractor(contentcal.WithLogger(a.log)).Extract(text)
			}

			path := a.settings.Output
			if path == "" {
				path = contentcal.SuggestedFileName(doc.BrandName)
			}
			if footer == "" {
				footer = doc.BrandName + " Content Calendar"
			}
			r := contentcal.NewRenderer(contentcal.WithFooterText(footer), contentcal.WithRenderLogger(a.log))
			if err := r.RenderFile(path, doc); err != nil {
				return err
			}
			color.New(color.FgGreen, color.Bold).Fprint(cmd.OutOrStdout(), "✓ ")
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d posts to %s\n", len(doc.Posts), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromJSON, "from-json", "", "render a document written by extract (JSON or YAML)")
	cmd.Flags().StringVar(&footer, "footer", "", "footer text (default \"<brand> Content Calendar\")")
	cmd.Flags().StringP("output", "o", "", "PDF path (default <brand>_content_calendar.pdf, env CONTENTCAL_OUTPUT)")
	return cmd
}
