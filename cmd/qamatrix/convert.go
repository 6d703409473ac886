package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/output"
)

var (
	outputPath  string
	dumpPath    string
	pretty      bool
	sectionsDir string
)

var convertCmd = &cobra.Command{
	Use:   "convert [input.pptx|input.ppt]",
	Short: "Convert a presentation to a QA test workbook",
	Long: `convert writes one worksheet per compliance matrix section found in the
presentation. Legacy .ppt files are upgraded with LibreOffice first.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output workbook path (default: <input>_test_sheet.xlsx)")
	convertCmd.Flags().StringVar(&dumpPath, "dump", "", "Write the parsed sections as JSON to this path (- for stdout)")
	convertCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	convertCmd.Flags().StringVar(&sectionsDir, "sections-dir", "", "Directory for per-section JSON files")

	rootCmd.AddCommand(convertCmd)
}

func defaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_test_sheet.xlsx"
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	logger := newLogger()
	opts, err := buildOptions(logger)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := qamatrix.Convert(ctx, data, filepath.Base(inputPath), opts)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	for _, w := range res.Warnings {
		logger.Warn("conversion warning", "warning", w)
	}

	out := outputPath
	if out == "" {
		out = defaultOutputPath(inputPath)
	}
	if err := os.WriteFile(out, res.Workbook, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("wrote workbook", "path", out, "sections", len(res.Sections))

	if dumpPath != "" {
		jsonData, err := output.ToJSON(output.NewSummary(filepath.Base(inputPath), res), pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		if dumpPath == "-" {
			fmt.Println(string(jsonData))
		} else if err := os.WriteFile(dumpPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}
	}

	if sectionsDir != "" {
		if err := writeSectionFiles(res, sectionsDir); err != nil {
			return fmt.Errorf("failed to write section files: %w", err)
		}
	}

	return nil
}

func writeSectionFiles(res *qamatrix.Result, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for i := range res.Sections {
		sec := &res.Sections[i]
		jsonData, err := output.SectionToJSON(sec, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, sec.Sheet+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}
