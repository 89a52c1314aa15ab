// Command reportgen is the offline CLI: fill a report template from an
// extracted-data JSON file, or inspect the field-rules workbook, without
// running the HTTP service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/advisordocs/reportgen/internal/convert"
	"github.com/advisordocs/reportgen/internal/report"
	"github.com/advisordocs/reportgen/internal/schema"
	"github.com/advisordocs/reportgen/internal/template"
	"github.com/advisordocs/reportgen/internal/template/mapping"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "reportgen",
		Short:         "Generate advisory reports from extracted meeting data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newFillCmd(), newSchemaCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newFillCmd() *cobra.Command {
	var (
		jsonPath     string
		templatePath string
		outPath      string
		mappingPath  string
		font         string
		strict       bool
		pdf          bool
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the report template from an extracted-data JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))

			data, err := report.Load(jsonPath)
			if err != nil {
				return err
			}
			cfg, err := mapping.Load(mappingPath)
			if err != nil {
				return err
			}

			p := template.New(cfg, log,
				template.WithFont(font),
				template.WithStrict(strict))

			result, err := p.Generate(templatePath, data, outPath)
			if err != nil {
				return err
			}
			if len(result.Unmatched) > 0 {
				log.Warn("placeholders left unfilled", "count", len(result.Unmatched))
				for _, ph := range result.Unmatched {
					fmt.Fprintln(os.Stderr, "  unmatched:", ph)
				}
			}
			fmt.Println("wrote", outPath)

			if pdf {
				pdfPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".pdf"
				if err := convert.ToPDF(context.Background(), outPath, pdfPath); err != nil {
					return err
				}
				fmt.Println("wrote", pdfPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jsonPath, "json", "", "extracted data JSON file (required)")
	cmd.Flags().StringVar(&templatePath, "template", "", "report template DOCX (required)")
	cmd.Flags().StringVar(&outPath, "out", "report.docx", "output DOCX path")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "section mapping YAML (default: embedded)")
	cmd.Flags().StringVar(&font, "font", "Arial", "font family for the generated report")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when placeholders are left unfilled")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "also convert the result to PDF")
	cmd.MarkFlagRequired("json")
	cmd.MarkFlagRequired("template")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	var (
		excelPath string
		sheet     string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the field rules loaded from the Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schema.Load(excelPath, sheet)
			if err != nil {
				return err
			}
			fmt.Printf("%d sections, %d fields\n\n", len(s.Sections), s.TotalFields())
			fmt.Println(s.PromptLines())
			return nil
		},
	}

	cmd.Flags().StringVar(&excelPath, "excel", "", "field rules workbook (required)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name (default: first sheet)")
	cmd.MarkFlagRequired("excel")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the reportgen version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("reportgen", version)
		},
	}
}
