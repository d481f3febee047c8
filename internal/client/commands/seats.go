package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/pokerroom/internal/seating"
)

// SeatsCommand prints where each server seat is drawn for a viewer
type SeatsCommand struct {
	Viewer     int    `arg:"" help:"Viewer's absolute seat"`
	Layout     string `default:"linear" help:"Seat layout: linear or balanced"`
	MaxPlayers int    `default:"8" help:"Table size"`
}

func (cmd *SeatsCommand) Run(flags *GlobalFlags) error {
	SetupColor(flags)

	layout, err := seating.ParseLayout(cmd.Layout)
	if err != nil {
		return err
	}
	mapper, err := seating.New(layout, cmd.Viewer, cmd.MaxPlayers)
	if err != nil {
		return err
	}

	fmt.Println(SeatTable(mapper, cmd.Viewer))
	return nil
}

// SeatTable renders the absolute to relative mapping of every seat
func SeatTable(mapper seating.Mapper, viewer int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("absolute", "relative", "")

	for abs := 0; abs < mapper.Size(); abs++ {
		rel, err := mapper.Relative(abs)
		if err != nil {
			continue
		}
		marker := ""
		if abs == viewer {
			marker = "you"
		}
		t.Row(strconv.Itoa(abs), strconv.Itoa(rel), marker)
	}
	return t.String()
}
