package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(allCmd)
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Scrapes the theory question banks of every profile.",
	Run: func(cmd *cobra.Command, args []string) {
		p := openPipeline()

		t1 := time.Now()
		p.RunQuestions(cmd.Context())
		slog.Info("question scrape finished", "seconds", time.Since(t1).Seconds())
	},
}

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Scrapes and downloads the practice exam archives of every profile.",
	Run: func(cmd *cobra.Command, args []string) {
		p := openPipeline()

		t1 := time.Now()
		p.RunPractice(cmd.Context())
		slog.Info("practice scrape finished", "seconds", time.Since(t1).Seconds())
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Runs the question and practice scrapes back to back.",
	Run: func(cmd *cobra.Command, args []string) {
		p := openPipeline()

		t1 := time.Now()
		p.RunQuestions(cmd.Context())
		p.RunPractice(cmd.Context())
		slog.Info("full scrape finished", "seconds", time.Since(t1).Seconds())
	},
}
