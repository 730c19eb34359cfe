package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codecritic/codecritic/internal/core"
)

var language string

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Submit a source file for an AI code review",
	Long: `Submit a source file for an AI code review.

The file's contents are sent to the review service, which asks the configured
model for a structured critique and stores the outcome in its history.

Examples:
  codecritic review main.go
  codecritic review --language Python scripts/build.py`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().StringVarP(&language, "language", "l", "", "Language of the file (default: inferred from extension)")
	rootCmd.AddCommand(reviewCmd)
}

// languageByExt maps common file extensions to language names for the prompt.
var languageByExt = map[string]string{
	".go":   "Go",
	".py":   "Python",
	".js":   "JavaScript",
	".ts":   "TypeScript",
	".tsx":  "TypeScript",
	".java": "Java",
	".rb":   "Ruby",
	".rs":   "Rust",
	".c":    "C",
	".cpp":  "C++",
	".cs":   "C#",
	".php":  "PHP",
	".sh":   "Shell",
	".sql":  "SQL",
}

func runReview(cmd *cobra.Command, args []string) error {
	path := args[0]

	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	lang := language
	if lang == "" {
		lang = languageByExt[strings.ToLower(filepath.Ext(path))]
	}
	if lang == "" {
		return fmt.Errorf("could not infer language for %s, pass --language", path)
	}

	filename := filepath.Base(path)
	fmt.Printf("Reviewing %s (%s)...\n", filename, lang)

	client := newAPIClient()
	result, err := client.Review(cmd.Context(), &core.ReviewRequest{
		Code:     string(code),
		Language: lang,
		Filename: filename,
	})
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func printResult(result *core.ReviewResult) {
	titleColor.Printf("\nReview: %s\n\n", result.Filename)
	fmt.Println(result.Review)

	if len(result.Issues) > 0 {
		boldColor.Printf("\nIssues (%d):\n", len(result.Issues))
		for _, issue := range result.Issues {
			printIssue(issue)
		}
	}

	s := result.Summary
	boldColor.Print("\nSummary: ")
	fmt.Printf("%d issues, %d critical, %d suggestions, score %d/100\n",
		s.TotalIssues, s.CriticalIssues, s.Suggestions, s.OverallScore)
}

func printIssue(issue core.Issue) {
	c := severityColor(issue.Severity)
	c.Printf("\n[%s/%s] %s", issue.Severity, issue.Type, issue.Title)
	if issue.Line > 0 {
		dimColor.Printf(" (line %d)", issue.Line)
	}
	fmt.Println()
	if issue.Description != "" {
		fmt.Printf("  %s\n", issue.Description)
	}
	if issue.Suggestion != "" {
		successColor.Printf("  Fix: %s\n", issue.Suggestion)
	}
}

func severityColor(severity string) *color.Color {
	switch strings.ToLower(severity) {
	case "high":
		return errorColor
	case "medium":
		return warnColor
	default:
		return dimColor
	}
}
