package tui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorRating    = lipgloss.Color("178") // Amber
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

var userStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

var labelStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

var focusedLabelStyle = labelStyle.Underline(true)

var chipStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Padding(0, 1)

var selectedChipStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1)

var selectedCardStyle = cardStyle.BorderForeground(colorHighlight)

var bookTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("254"))

var metaStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("247")).
	Faint(true)

var ratingStyle = lipgloss.NewStyle().
	Foreground(colorRating)

var badgeStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("0")).
	Background(colorSuccess).
	Padding(0, 1)

// errorStyle is used for search and sign-in failures.
var errorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

var noticeStyle = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Padding(0, 1)

var helpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 1, 0, 1)

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(colorHighlight).
	Padding(1, 2).
	Width(52)
