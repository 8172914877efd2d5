package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coolbeans/epubdiff/pkg/compare"
	"github.com/coolbeans/epubdiff/pkg/config"
	"github.com/coolbeans/epubdiff/pkg/epub"
	"github.com/coolbeans/epubdiff/pkg/novelty"
	"github.com/coolbeans/epubdiff/pkg/report"
	"github.com/coolbeans/epubdiff/pkg/server"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "epubdiff",
		Short: "Compare two versions of an EPUB",
		Long: `Epubdiff compares a revised EPUB against an original and reports,
chapter by chapter, which paragraphs were added, removed, or modified,
with character-level highlighting of edits.

It can also run in novelty mode, which ignores chapter structure and
lists the paragraphs of the revised book whose content does not appear
anywhere in the original.`,
		Version: version,
	}

	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(noveltyCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadProfile reads the threshold profile, or defaults when no file is given.
func loadProfile(profilePath string) (config.Profile, error) {
	if profilePath == "" {
		return config.Default(), nil
	}
	return config.Load(profilePath)
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare OLD.epub NEW.epub",
		Short: "Compare two EPUB files chapter by chapter",
		Long: `Compare two EPUB files and report added, deleted, and modified
paragraphs grouped by matched chapter.

Example:
  epubdiff compare original.epub revised.epub -o report.html
  epubdiff compare original.epub revised.epub --format simple -o report.html
  epubdiff compare original.epub revised.epub --format json
  epubdiff compare original.epub revised.epub --format table --show-same`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			showSame, _ := cmd.Flags().GetBool("show-same")
			profilePath, _ := cmd.Flags().GetString("profile")
			threshold, _ := cmd.Flags().GetFloat64("threshold")

			profile, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("threshold") {
				profile.ModificationThreshold = threshold
			}
			if showSame {
				profile.ShowSame = true
			}
			if err := profile.Validate(); err != nil {
				return err
			}

			fmt.Printf("Loading %s...\n", args[0])
			oldChapters, err := epub.ExtractChapters(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("  Found %d chapters\n", len(oldChapters))

			fmt.Printf("Loading %s...\n", args[1])
			newChapters, err := epub.ExtractChapters(args[1])
			if err != nil {
				return err
			}
			fmt.Printf("  Found %d chapters\n", len(newChapters))

			fmt.Println("Comparing...")
			result, err := compare.Books(context.Background(), oldChapters, newChapters, profile.Options())
			if err != nil {
				return err
			}
			result.OldName = args[0]
			result.NewName = args[1]

			var rendered []byte
			switch formatStr {
			case "html":
				rendered = []byte(report.RenderHTML(result, report.HTMLOptions{ShowSame: profile.ShowSame}))
			case "simple":
				rendered = []byte(report.RenderSimpleHTML(result))
			case "json":
				rendered, err = result.ToJSON()
				if err != nil {
					return fmt.Errorf("failed to serialize JSON: %w", err)
				}
			case "table":
				rendered = []byte(report.RenderText(result))
			default:
				return fmt.Errorf("unknown format: %s (use html, simple, json, or table)", formatStr)
			}

			if output != "" {
				if err := os.WriteFile(output, rendered, 0644); err != nil {
					return fmt.Errorf("failed to write file: %w", err)
				}
				fmt.Printf("Report saved to: %s\n", output)
			} else {
				fmt.Print(string(rendered))
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().String("format", "html", "Output format: html, simple, json, or table")
	cmd.Flags().Bool("show-same", false, "Include unchanged paragraphs in the report")
	cmd.Flags().String("profile", "", "Threshold profile YAML file")
	cmd.Flags().Float64("threshold", 0.5, "Similarity above which paired paragraphs count as modified")
	return cmd
}

func noveltyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "novelty OLD.epub NEW.epub",
		Short: "List paragraphs of the revised EPUB with new content",
		Long: `Check each paragraph of the revised EPUB against the whole original,
ignoring chapter structure, and list the paragraphs judged to contain
genuinely new content rather than reflowed or re-segmented text.

Example:
  epubdiff novelty original.epub revised.epub
  epubdiff novelty original.epub revised.epub --format json --max 0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")
			maxRows, _ := cmd.Flags().GetInt("max")
			profilePath, _ := cmd.Flags().GetString("profile")

			profile, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max") {
				profile.MaxRows = maxRows
			}
			if err := profile.Validate(); err != nil {
				return err
			}

			fmt.Printf("Loading %s...\n", args[0])
			baseline, err := epub.ExtractParagraphs(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("  Found %d paragraphs\n", len(baseline))

			fmt.Printf("Loading %s...\n", args[1])
			revised, err := epub.ExtractParagraphs(args[1])
			if err != nil {
				return err
			}
			fmt.Printf("  Found %d paragraphs\n", len(revised))

			fmt.Println("Analyzing...")
			index := novelty.NewIndex(baseline, profile.Options())
			results := index.ClassifyAll(revised)

			switch formatStr {
			case "table":
				fmt.Print(report.RenderNoveltyText(results, profile.MaxRows))
			case "json":
				jsonData, err := novelty.ResultsToJSON(results)
				if err != nil {
					return fmt.Errorf("failed to serialize JSON: %w", err)
				}
				fmt.Println(string(jsonData))
			default:
				return fmt.Errorf("unknown format: %s (use table or json)", formatStr)
			}
			return nil
		},
	}

	cmd.Flags().String("format", "table", "Output format: table or json")
	cmd.Flags().Int("max", 300, "Maximum rows to print (0 = no cap)")
	cmd.Flags().String("profile", "", "Threshold profile YAML file")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the upload-and-compare web server",
		Long: `Serve a minimal upload page plus JSON endpoints for comparing two
uploaded EPUBs. With --profile, threshold changes to the file are
picked up without a restart.

Example:
  epubdiff serve --addr :8080
  epubdiff serve --addr :8080 --profile thresholds.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			profilePath, _ := cmd.Flags().GetString("profile")
			dev, _ := cmd.Flags().GetBool("dev")

			var zapLogger *zap.Logger
			var err error
			if dev {
				zapLogger, err = zap.NewDevelopment()
			} else {
				zapLogger, err = zap.NewProduction()
			}
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer zapLogger.Sync()
			log := zapLogger.Sugar()

			store, err := config.NewStore(profilePath)
			if err != nil {
				return err
			}
			if profilePath != "" {
				store.SetOnChange(func(p config.Profile) {
					log.Infow("profile reloaded", "path", profilePath)
				})
				if err := store.Watch(); err != nil {
					return err
				}
				defer store.Stop()
			}

			return server.New(log, store).Run(addr)
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().String("profile", "", "Threshold profile YAML file (hot-reloaded)")
	cmd.Flags().Bool("dev", false, "Use human-readable development logging")
	return cmd
}
