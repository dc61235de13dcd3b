package domain

import "context"

// LLMClient sends one system+user prompt pair to a hosted model and
// returns the raw completion text.
type LLMClient interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Augmenter adds AI findings to a validation run. It must not fail:
// problems are reported through AugmentResult.Status.
type Augmenter interface {
	Augment(ctx context.Context, form FormSnapshot) AugmentResult
}

// DocumentRenderer turns a finished form into a downloadable document.
type DocumentRenderer interface {
	Format() DocumentFormat
	Render(doc Document) ([]byte, error)
}

// ConfigLoader loads service configuration from a path.
type ConfigLoader interface {
	Load(path string) (Config, error)
}

// GitInfo provides revision details for files kept in a git repository.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}

// ScoreHistory persists recorded validation scores under a directory.
type ScoreHistory interface {
	Save(dir string, entry ScoreEntry) error
	Load(dir string) ([]ScoreEntry, error)
}
