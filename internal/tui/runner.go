package tui

import (
	"fmt"
	"io"
	"os"
)

func PromptContinue(message string) bool {
	if !IsInteractive() {
		return true
	}

	fmt.Printf("%s [Y/n]: ", message)

	var response string
	fmt.Scanln(&response)

	return response == "" || response == "y" || response == "Y"
}

type ProgressDisplay struct {
	out io.Writer
}

func NewProgressDisplay() *ProgressDisplay {
	return &ProgressDisplay{out: os.Stdout}
}

func (p *ProgressDisplay) Start(message string) {
	if !IsInteractive() {
		fmt.Fprintln(p.out, message)
		return
	}
	fmt.Fprintf(p.out, "◐ %s\n", message)
}

func (p *ProgressDisplay) Success(message string) {
	fmt.Fprintf(p.out, "✓ %s\n", message)
}

func (p *ProgressDisplay) Error(message string) {
	fmt.Fprintf(p.out, "✗ %s\n", message)
}
