package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	errorColor  = lipgloss.Color("#A40000")
	accentColor = lipgloss.Color("#FFA500")
	mutedColor  = lipgloss.Color("#888888")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	keyStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(16)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)
)

func printHeader(title string) {
	fmt.Println(headerStyle.Render(title))
}

func printField(key, value string) {
	fmt.Println(keyStyle.Render(key) + value)
}

func printError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("Error:"), message)
}
