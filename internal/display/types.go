package display

import (
	"time"

	"github.com/autobrr/mksha1/internal/hasher"
	"github.com/autobrr/mksha1/internal/types"
)

// Displayer defines an interface for display functionality
type Displayer interface {
	hasher.Displayer
	SetQuiet(quiet bool)
	ShowMessage(msg string)
	ShowError(msg string)
	ShowWarning(msg string)
	ShowResults(results []types.FileResult, duration time.Duration)
	ShowVerificationResult(result *types.VerificationResult, duration time.Duration)
}
