package gitinfo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// ShortHashLen is the abbreviated commit length stamped on documents.
const ShortHashLen = 7

// GitInfoAdapter implements domain.GitInfo using go-git. Paths may name a
// file or a directory anywhere inside the work tree.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

func (g *GitInfoAdapter) IsGitRepo(path string) bool {
	_, err := open(path)
	return err == nil
}

func (g *GitInfoAdapter) CommitHash(path string) (string, error) {
	repo, err := open(path)
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Hash().String(), nil
}

// ShortHash returns the abbreviated HEAD commit, or "" when path is not in
// a repository with at least one commit.
func (g *GitInfoAdapter) ShortHash(path string) string {
	hash, err := g.CommitHash(path)
	if err != nil || len(hash) < ShortHashLen {
		return ""
	}
	return hash[:ShortHashLen]
}

func open(path string) (*git.Repository, error) {
	dir := path
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		dir = filepath.Dir(path)
	}
	return git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
}
