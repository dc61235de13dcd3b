package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Hannlytics/rams-generator/internal/domain"
)

const historyFile = ".rams/history/scores.json"

// FileHistory implements domain.ScoreHistory using JSON file storage.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

func (h *FileHistory) Save(dir string, entry domain.ScoreEntry) error {
	entries, err := h.Load(dir)
	if err != nil {
		return err
	}

	entries = append(entries, entry)

	fp := filepath.Join(dir, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fp, data, 0o644)
}

// Load returns every recorded entry under dir. A missing file is an empty history.
func (h *FileHistory) Load(dir string) ([]domain.ScoreEntry, error) {
	fp := filepath.Join(dir, historyFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.ScoreEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", historyFile, err)
	}

	return entries, nil
}
