package git

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// GitInfo contains git repository information
type GitInfo struct {
	Branch     string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Commit     string `json:"commit,omitempty" yaml:"commit,omitempty"`
	IsDirty    bool   `json:"is_dirty" yaml:"is_dirty"`
	RemoteURL  string `json:"remote_url,omitempty" yaml:"remote_url,omitempty"`
	Repository string `json:"repository,omitempty" yaml:"repository,omitempty"`
}

func open(path string) (*git.Repository, *git.Worktree, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, nil, err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, nil, err
	}
	return repo, worktree, nil
}

// GetGitInfo retrieves git repository information for the given path.
// Returns nil when path is not inside a git repository.
func GetGitInfo(path string) *GitInfo {
	repo, worktree, err := open(path)
	if err != nil {
		return nil
	}

	gitInfo := &GitInfo{}

	head, err := repo.Head()
	if err == nil {
		// Use short hash (first 7 characters)
		gitInfo.Commit = head.Hash().String()[:7]
		if head.Name().IsBranch() {
			gitInfo.Branch = head.Name().Short()
		} else {
			gitInfo.Branch = "HEAD" // Detached HEAD
		}
	}

	status, err := worktree.Status()
	if err == nil {
		gitInfo.IsDirty = !status.IsClean()
	}

	remoteConfig, err := repo.Config()
	if err == nil {
		if origin := remoteConfig.Remotes["origin"]; origin != nil && len(origin.URLs) > 0 {
			gitInfo.RemoteURL = sanitizeRemoteURL(origin.URLs[0])
			gitInfo.Repository = normalizeRemoteURL(gitInfo.RemoteURL)
		}
	}

	return gitInfo
}

// FindRepoRoot finds the git repository root for a given path, searching parent
// directories. Returns empty string if not in a git repository.
func FindRepoRoot(path string) string {
	_, worktree, err := open(path)
	if err != nil {
		return ""
	}
	return worktree.Filesystem.Root()
}

// ChangedFiles reports which of files (relative to path) differ from HEAD,
// staged or not. Untracked files count as changed.
func ChangedFiles(path string, files []string) ([]string, error) {
	_, worktree, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status: %w", err)
	}

	root, err := realPath(worktree.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	base, err := realPath(path)
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, file := range files {
		rel, err := filepath.Rel(root, filepath.Join(base, file))
		if err != nil {
			continue
		}
		fileStatus, ok := status[filepath.ToSlash(rel)]
		if !ok {
			continue
		}
		if fileStatus.Worktree != git.Unmodified || fileStatus.Staging != git.Unmodified {
			changed = append(changed, file)
		}
	}
	return changed, nil
}

func realPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// sanitizeRemoteURL strips credentials from http(s) remote URLs
func sanitizeRemoteURL(remote string) string {
	if !strings.HasPrefix(remote, "http://") && !strings.HasPrefix(remote, "https://") {
		return remote
	}
	u, err := url.Parse(remote)
	if err != nil || u.User == nil {
		return remote
	}
	u.User = nil
	return u.String()
}

// normalizeRemoteURL converts various git URL formats to a consistent format
func normalizeRemoteURL(url string) string {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "git@")
	url = strings.TrimPrefix(url, "git://")
	url = strings.TrimSuffix(url, "/")
	url = strings.TrimSuffix(url, ".git")
	return url
}
