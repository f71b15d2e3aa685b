package ui

import "caserun/internal/domain"

// Viewer displays a run's failures
type Viewer interface {
	View(output *domain.RunOutput) error
}
