package tui

import "github.com/charmbracelet/lipgloss"

// palette — цвета одной темы.
type palette struct {
	fg       lipgloss.Color
	muted    lipgloss.Color
	accent   lipgloss.Color
	border   lipgloss.Color
	button   lipgloss.Color
	operator lipgloss.Color
	errorFg  lipgloss.Color
}

var (
	lightPalette = palette{
		fg:       "#1F2937",
		muted:    "#6B7280",
		accent:   "#2563EB",
		border:   "#D1D5DB",
		button:   "#374151",
		operator: "#2563EB",
		errorFg:  "#DC2626",
	}
	darkPalette = palette{
		fg:       "#F3F4F6",
		muted:    "#9CA3AF",
		accent:   "#60A5FA",
		border:   "#4B5563",
		button:   "#E5E7EB",
		operator: "#60A5FA",
		errorFg:  "#F87171",
	}
	lovePalette = palette{
		fg:       "#831843",
		muted:    "#BE185D",
		accent:   "#EC4899",
		border:   "#F9A8D4",
		button:   "#9D174D",
		operator: "#DB2777",
		errorFg:  "#B91C1C",
	}
	darkLovePalette = palette{
		fg:       "#FCE7F3",
		muted:    "#F9A8D4",
		accent:   "#F472B6",
		border:   "#9D174D",
		button:   "#FBCFE8",
		operator: "#F472B6",
		errorFg:  "#FCA5A5",
	}
)

// theme — готовые стили для текущей комбинации тёмного и love-режимов.
type theme struct {
	title    string
	frame    lipgloss.Style
	header   lipgloss.Style
	preview  lipgloss.Style
	display  lipgloss.Style
	button   lipgloss.Style
	operator lipgloss.Style
	action   lipgloss.Style
	errorMsg lipgloss.Style
	loveNote lipgloss.Style
	panel    lipgloss.Style
	muted    lipgloss.Style
}

func themeFor(dark, love bool) theme {
	p := lightPalette
	switch {
	case dark && love:
		p = darkLovePalette
	case dark:
		p = darkPalette
	case love:
		p = lovePalette
	}
	title := "Calculator"
	if love {
		title = "Love Calculator 💕"
	}

	cell := lipgloss.NewStyle().Width(5).Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder(), true).BorderForeground(p.border)

	return theme{
		title:    title,
		frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(p.accent).Padding(0, 1),
		header:   lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		preview:  lipgloss.NewStyle().Foreground(p.muted).Width(displayWidth).Align(lipgloss.Right),
		display:  lipgloss.NewStyle().Foreground(p.fg).Bold(true).Width(displayWidth).Align(lipgloss.Right),
		button:   cell.Foreground(p.button),
		operator: cell.Foreground(p.operator).Bold(true),
		action:   cell.Foreground(p.accent).Bold(true),
		errorMsg: lipgloss.NewStyle().Foreground(p.errorFg).Bold(true),
		loveNote: lipgloss.NewStyle().Foreground(p.accent).Italic(true),
		panel:    lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).BorderForeground(p.border).Padding(0, 1).Width(displayWidth),
		muted:    lipgloss.NewStyle().Foreground(p.muted),
	}
}
