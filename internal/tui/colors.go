package tui

// Color constants for the torudo board theme
const (
	// Base Colors
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Card descriptions, headers
	ColorSecondaryText = "#B1B8C7" // Contexts, counts
	ColorDisabledText  = "#6D7383" // Empty columns, ids
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Selected card border, active column header
	ColorAccentBright = "#A78BFA" // Project names

	// Priority Colors
	ColorPriorityA = "#EF4444"
	ColorPriorityB = "#F59E0B"
	ColorPriorityC = "#22C55E"

	// Session Status Colors
	ColorWorking = "#22C55E"
	ColorWaiting = "#F59E0B"
	ColorIdle    = "#6D7383"
)
