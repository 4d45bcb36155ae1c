package main

import "github.com/charmbracelet/lipgloss"

const (
	greenLight = "#56949f"
	greenDark  = "#9ccfd8"
)

var (
	accent = lipgloss.AdaptiveColor{Dark: greenDark, Light: greenLight}

	keyStyle = lipgloss.NewStyle().
			Width(13).
			Foreground(accent).
			Bold(true)
)
