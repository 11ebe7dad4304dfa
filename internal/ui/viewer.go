package ui

import "ctp/internal/domain"

// Viewer displays case failures in an interactive TUI
type Viewer interface {
	View(results *domain.ResultsOutput) error
}
