// Command quiz runs the preference assessment in a terminal and prints the
// resulting ranking.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/manifoldco/promptui"

	"github.com/MikeSquared-Agency/Matchmaker/internal/assessment"
	"github.com/MikeSquared-Agency/Matchmaker/internal/config"
	"github.com/MikeSquared-Agency/Matchmaker/internal/scoring"
	"github.com/MikeSquared-Agency/Matchmaker/internal/session"
	"github.com/MikeSquared-Agency/Matchmaker/internal/traits"
)

const (
	promptAgain = "Take the assessment again"
	promptQuit  = "Quit"
)

var errQuit = errors.New("quit requested")

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger := cfg.Logging.NewLogger(os.Stderr)

	data := assessment.LoadData(cfg.Dataset.Path, traits.LoadOptions{
		NameColumn:        cfg.Dataset.NameColumn,
		DescriptionColumn: cfg.Dataset.DescriptionColumn,
	}, logger)
	deck, err := assessment.LoadDeck(cfg.Scenarios.Path, data.Registry, cfg.Scenarios.Strict, logger)
	if err != nil {
		logger.Error("failed to load scenarios", "error", err)
		os.Exit(1)
	}

	acc := session.NewAccumulator(session.NewMachine(deck, data.Registry.Len()))
	for {
		if err := run(acc, data, cfg.Ranking, logger); err != nil {
			if errors.Is(err, errQuit) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			logger.Error("quiz failed", "error", err)
			os.Exit(1)
		}

		again := promptui.Select{
			Label: "What next?",
			Items: []string{promptAgain, promptQuit},
		}
		_, selected, err := again.Run()
		if err != nil || selected == promptQuit {
			return
		}
		acc.Reset()
	}
}

func run(acc *session.Accumulator, data *traits.Normalized, rc config.RankingConfig, logger *slog.Logger) error {
	if err := acc.Begin(); err != nil {
		return err
	}

	for acc.State().CurrentPhase() == session.PhaseInProgress {
		sc, err := acc.Current()
		if err != nil {
			return err
		}
		if recent := recentAnswers(acc.State().Answers, recentShown); len(recent) > 0 {
			fmt.Println("\nYour previous answers")
			for _, line := range recent {
				fmt.Println("  " + line)
			}
		}
		choices := choicesFor(sc)
		prompt := promptui.Select{
			Label: progressLabel(acc.State().Question, acc.Len(), sc.Question),
			Items: labels(choices),
			Size:  len(choices),
		}
		idx, _, err := prompt.Run()
		if err != nil {
			return err
		}
		rec, err := acc.Answer(choices[idx].Side, choices[idx].Multiplier)
		if err != nil {
			return err
		}
		logger.Debug("answer recorded", "scenario", rec.Scenario, "description", rec.Description)
	}

	prefs, err := acc.State().Final()
	if err != nil {
		return err
	}
	ranking, err := scoring.Rank(data, prefs)
	if err != nil {
		return err
	}

	out := os.Stdout
	fmt.Fprintln(out, "\nYour top matches")
	printMatches(out, ranking.Top(rc.TopN))

	fmt.Fprintln(out, "\nFull ranking")
	printMatches(out, ranking.All())

	profile := scoring.BuildProfile(data.Registry, prefs, rc.ProfileThreshold, rc.ProfileTopK)
	fmt.Fprintf(out, "\nPreference profile: %d of %d traits active, strongest %.2f, mean %.2f\n",
		profile.ActiveTraits, profile.TotalTraits, profile.Strongest, profile.MeanStrength)
	for _, kt := range profile.KeyTraits {
		fmt.Fprintf(out, "  %s %s (%+.2f)\n", kt.Direction, kt.Trait, kt.Score)
	}
	if len(profile.All) > 0 {
		fmt.Fprintln(out, "\nDetailed analysis")
		for _, tp := range profile.All {
			fmt.Fprintf(out, "  %-20s %+.2f\n", tp.Trait, tp.Score)
		}
	}
	return nil
}

func printMatches(w io.Writer, matches []scoring.Match) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tMATCH\tSCORE")
	for _, m := range matches {
		fmt.Fprintf(tw, "%d\t%s\t%.0f%%\t%.3f\n", m.Rank+1, m.Name, m.Percentage, m.Score)
	}
	tw.Flush()
}
