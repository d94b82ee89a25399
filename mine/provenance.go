package mine

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/dhamidi/codegram/dataset"
)

// ReadProvenance describes the repository containing dir from its git
// metadata and its Maven pom.xml. Outside a git work tree only the directory
// name and the pom are consulted.
func ReadProvenance(dir string) dataset.Repo {
	repo := dataset.Repo{}
	if abs, err := filepath.Abs(dir); err == nil {
		repo.Name = filepath.Base(abs)
	} else {
		repo.Name = filepath.Base(dir)
	}

	readGit(dir, &repo)
	readPOM(dir, &repo)
	return repo
}

// readGit sets the HEAD commit and the origin remote of the work tree
// containing dir.
func readGit(dir string, repo *dataset.Repo) {
	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		log.Debugf("%s: no git repository: %v", dir, err)
		return
	}
	if head, err := r.Head(); err == nil {
		repo.CommitSHA = head.Hash().String()
	}
	if remote, err := r.Remote("origin"); err == nil && len(remote.Config().URLs) > 0 {
		repo.URL = remote.Config().URLs[0]
		if name := RepoNameFromURL(repo.URL); name != "" {
			repo.Name = name
		}
	}
}

// RepoNameFromURL returns owner/name for remote URLs such as
// https://github.com/owner/name.git or git@github.com:owner/name.git.
func RepoNameFromURL(url string) string {
	url = strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")
	parts := strings.FieldsFunc(url, func(r rune) bool { return r == '/' || r == ':' })
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1]
}
