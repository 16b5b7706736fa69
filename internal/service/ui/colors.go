package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle ANSI 6 (Cyan) for headers, readable on both light and dark terminals
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle ANSI 2 (Green) for arguments and usage lines
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle ANSI 8 (Bright Black / Gray) for descriptions
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle ANSI 3 (Yellow) for flags
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// PromptStyle ANSI 5 (Magenta) for the interactive input prompt
	PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)

	// ReplyStyle ANSI 6 (Cyan) for assistant replies in the terminal
	ReplyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	// NoticeStyle ANSI 3 (Yellow) for transient notices like the busy warning
	NoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Italic(true)
)
