// Package publish stages, commits, and pushes gallery changes to the
// repository tracking the site, gated by operator confirmation.
package publish

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoRepository is returned when the working directory is not inside a git
// work tree.
var ErrNoRepository = errors.New("no git repository found")

// Publisher runs git subprocesses rooted at Dir.
type Publisher struct {
	Dir    string // repository root; "" means the current directory
	Remote string // push target, e.g. "origin"
}

// NewPublisher creates a Publisher for the repository at dir.
func NewPublisher(dir, remote string) *Publisher {
	if remote == "" {
		remote = "origin"
	}
	return &Publisher{Dir: dir, Remote: remote}
}

// git runs a git command in the publisher's directory and returns its
// combined output. Errors include the git output, which is where git puts
// the useful part of its diagnostics.
func (p *Publisher) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = p.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w\n%s", args[0], err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// EnsureRepository verifies the directory is inside a git work tree.
func (p *Publisher) EnsureRepository() error {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = p.Dir
	if out, err := cmd.CombinedOutput(); err != nil || strings.TrimSpace(string(out)) != "true" {
		return ErrNoRepository
	}
	return nil
}

// HasChanges reports whether any of the given paths have uncommitted changes
// (including untracked files).
func (p *Publisher) HasChanges(paths ...string) (bool, error) {
	args := append([]string{"status", "--porcelain", "--"}, paths...)
	out, err := p.git(args...)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Stage adds the given paths to the index.
func (p *Publisher) Stage(paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	_, err := p.git(args...)
	return err
}

// Commit records the staged changes with the given message.
func (p *Publisher) Commit(message string) error {
	_, err := p.git("commit", "-m", message)
	return err
}

// CurrentBranch returns the name of the checked-out branch.
func (p *Publisher) CurrentBranch() (string, error) {
	return p.git("rev-parse", "--abbrev-ref", "HEAD")
}

// Push pushes the current branch to the configured remote. On failure the
// local commit is left in place for the operator to resolve manually.
func (p *Publisher) Push() error {
	branch, err := p.CurrentBranch()
	if err != nil {
		return err
	}
	_, err = p.git("push", p.Remote, branch)
	return err
}
