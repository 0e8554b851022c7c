package hasher

import "github.com/autobrr/mksha1/internal/types"

// Displayer defines the interface for displaying progress while hashing
type Displayer interface {
	ShowProgress(total int64)
	UpdateProgress(completed int64, hashrate float64)
	FinishProgress()
	ShowFiles(files []types.FileEntry, numWorkers int)
}

type nopDisplay struct{}

func (nopDisplay) ShowProgress(int64)               {}
func (nopDisplay) UpdateProgress(int64, float64)    {}
func (nopDisplay) FinishProgress()                  {}
func (nopDisplay) ShowFiles([]types.FileEntry, int) {}
