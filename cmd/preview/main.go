package main

import (
	"fmt"
	"os"
	"path/filepath"

	"quantumconnections/internal/config"
	"quantumconnections/internal/model"
	"quantumconnections/internal/question"
	"quantumconnections/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	category string
	outPath  string
	count    int
	name1    string
	name2    string
	match    int
)

var rootCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render cards and roll question sets without running the server",
}

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Render a share card with the fallback reading to a PNG file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := parseCategory()
		if err != nil {
			return err
		}

		cfg := config.Load()
		if count <= 0 {
			count = cfg.ParticleCount
		}
		svc := service.NewCardService(count, cfg.PublicOrigin, zap.NewNop())
		record := model.InitialRecord()
		record.Name1, record.Name2 = name1, name2
		record.Relationship = cat
		result := model.FallbackResult()
		card, err := svc.Export(&model.Session{
			ID:           "preview",
			Step:         model.AppResult,
			Wizard:       model.WizardState{Step: model.StepDone, Record: record},
			Result:       &result,
			MatchPercent: match,
		})
		if err != nil {
			return err
		}

		path := outPath
		if path == "" {
			path = card.Filename
		} else if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, card.Filename)
		}
		if err := os.WriteFile(path, card.PNG, 0o644); err != nil {
			return fmt.Errorf("write card: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\nshare: %s\n", path, len(card.PNG), card.ShareURL)
		return nil
	},
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Roll and print one question set for a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := parseCategory()
		if err != nil {
			return err
		}

		set := question.Select(cat, nil)
		out := map[string]model.Question{
			model.PhaseOrbit.String():   set.Q1,
			model.PhaseImpact.String():  set.Q2,
			model.PhaseGravity.String(): set.Q3,
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	},
}

func parseCategory() (model.Category, error) {
	cat, ok := model.ParseCategory(category)
	if !ok {
		return "", fmt.Errorf("unknown category %q (want one of %v)", category, model.Categories())
	}
	return cat, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&category, "category", "c", string(model.DefaultCategory), "Relationship category")
	cardCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file or directory (default: Quantum-Connection-<Category>.png)")
	cardCmd.Flags().IntVarP(&count, "count", "n", 0, "Particle count (default: $PARTICLE_COUNT or 3000)")
	cardCmd.Flags().StringVar(&name1, "name1", "سارة", "First name on the card")
	cardCmd.Flags().StringVar(&name2, "name2", "علي", "Second name on the card")
	cardCmd.Flags().IntVar(&match, "match", 88, "Match percentage on the card")

	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(questionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
