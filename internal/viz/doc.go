// Package viz renders stored run data for the terminal.
//
//   - [EnergyPlots]: asciigraph charts of the energy and temperature series
//   - [SummaryBox]: a styled block with the run summary
//   - [Sparkline]: a one-line trend of a series
//
// Styles are lipgloss styles and degrade to plain text when the output is
// not a terminal.
package viz
