package main

import (
	"fmt"

	"github.com/MikeSquared-Agency/Matchmaker/internal/scenario"
	"github.com/MikeSquared-Agency/Matchmaker/internal/session"
)

// recentShown is how many previous answers are echoed above each question.
const recentShown = 3

// choice is one selectable answer in the terminal prompt.
type choice struct {
	Label      string
	Side       scenario.Side
	Multiplier float64
}

func choicesFor(sc scenario.Compiled) []choice {
	return []choice{
		{Label: "Strongly: " + sc.OptionA, Side: scenario.SideA, Multiplier: 1.0},
		{Label: "Somewhat: " + sc.OptionA, Side: scenario.SideA, Multiplier: 0.5},
		{Label: "No strong preference", Side: scenario.SideNeutral, Multiplier: 0},
		{Label: "Somewhat: " + sc.OptionB, Side: scenario.SideB, Multiplier: 0.5},
		{Label: "Strongly: " + sc.OptionB, Side: scenario.SideB, Multiplier: 1.0},
	}
}

func labels(cs []choice) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Label
	}
	return out
}

func progressLabel(idx, total int, question string) string {
	return fmt.Sprintf("[%d/%d] %s", idx+1, total, question)
}

// recentAnswers renders the last n answers, oldest first.
func recentAnswers(answers []session.AnswerRecord, n int) []string {
	if len(answers) > n {
		answers = answers[len(answers)-n:]
	}
	out := make([]string, len(answers))
	for i, a := range answers {
		out[i] = fmt.Sprintf("Q%d: %s", a.Scenario+1, a.Description)
	}
	return out
}
