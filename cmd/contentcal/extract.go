package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vivaneiona/contentcal"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		format     string
		showReport bool
	)
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract the calendar document from saved model output",
		Long:  "Reads model output from a text file (or stdin when the file is omitted or \"-\") and prints the extracted calendar document.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.Context(), cmd.InOrStdin(), args, a)
			if err != nil {
				return err
			}
			doc, rep := contentcal.NewExtractor(contentcal.WithLogger(a.log)).ExtractWithReport(text)
			if showReport {
				out, err := rep.Format(contentcal.FormatText)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), out)
			}
			return writeDocument(cmd.OutOrStdout(), doc, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json|yaml")
	cmd.Flags().BoolVar(&showReport, "report", false, "print the extraction report to stderr")
	return cmd
}

// readInput reads the first argument as a text file, or stdin when there is
// no argument or it is "-".
func readInput(ctx context.Context, stdin io.Reader, args []string, a *app) (string, error) {
	var asset contentcal.Asset
	if len(args) == 0 || args[0] == "-" {
		asset = contentcal.NewReaderAsset(stdin)
	} else {
		asset = contentcal.NewFileAsset(args[0], contentcal.WithAssetLogger(a.log))
	}
	return asset.Text(ctx)
}

func writeDocument(w io.Writer, doc *contentcal.CalendarDocument, format string) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (want json or yaml)", format)
	}
}

// readDocument loads a CalendarDocument saved by extract.
func readDocument(path string) (*contentcal.CalendarDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc contentcal.CalendarDocument
	// yaml.v3 reads both formats extract writes
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}
