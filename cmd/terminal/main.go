package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"stockbrief/client"
	"stockbrief/model"
	"stockbrief/tui"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "analysis server base URL")
	flag.Parse()

	brief := client.NewBriefClient(*server)

	// Ask the server for its section list so display names and ordering
	// stay in sync; fall back to the built-in keys when it is unreachable.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	sections, err := brief.Sections(ctx)
	cancel()
	if err != nil || len(sections) == 0 {
		sections = fallbackSections()
	}

	ticker := ""
	if flag.NArg() > 0 {
		ticker = flag.Arg(0)
	}

	m := tui.NewModel(brief, sections, ticker)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running terminal UI: %v\n", err)
		os.Exit(1)
	}
}

func fallbackSections() []model.SectionName {
	all := model.AllSections()
	sections := make([]model.SectionName, 0, len(all))
	for _, section := range all {
		sections = append(sections, model.SectionName{Key: section.String(), Name: section.String()})
	}
	return sections
}
