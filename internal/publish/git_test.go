package publish

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// initRepo creates a git repository in a temp directory with identity
// configured so commits work in CI environments.
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEnsureRepository(t *testing.T) {
	dir := initRepo(t)

	p := NewPublisher(dir, "origin")
	if err := p.EnsureRepository(); err != nil {
		t.Errorf("EnsureRepository in repo: %v", err)
	}
}

func TestEnsureRepository_NoRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	// GIT_CEILING_DIRECTORIES is not set, so make sure the temp dir is not
	// nested inside some outer repository by checking the error only.
	p := NewPublisher(filepath.Join(os.TempDir()), "origin")
	err := p.EnsureRepository()
	if err != nil && !errors.Is(err, ErrNoRepository) {
		t.Errorf("err = %v; want ErrNoRepository or nil", err)
	}
}

func TestStageCommitFlow(t *testing.T) {
	dir := initRepo(t)
	p := NewPublisher(dir, "origin")

	writeFile(t, dir, "photos/1_a.jpg", "fake image data")
	writeFile(t, dir, "index.html", "<html></html>")

	changed, err := p.HasChanges("photos", "index.html")
	if err != nil {
		t.Fatalf("HasChanges: %v", err)
	}
	if !changed {
		t.Fatal("HasChanges = false; want true for untracked files")
	}

	if err := p.Stage("photos", "index.html"); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if err := p.Commit("Add 1 new photos"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	changed, err = p.HasChanges("photos", "index.html")
	if err != nil {
		t.Fatalf("HasChanges after commit: %v", err)
	}
	if changed {
		t.Error("HasChanges = true after commit; want false")
	}

	branch, err := p.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch == "" {
		t.Error("CurrentBranch returned empty string")
	}
}

func TestPush_ToLocalBareRemote(t *testing.T) {
	dir := initRepo(t)
	p := NewPublisher(dir, "origin")

	bare := t.TempDir()
	cmd := exec.Command("git", "init", "-q", "--bare", bare)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git init --bare: %v\n%s", err, out)
	}
	remote := exec.Command("git", "remote", "add", "origin", bare)
	remote.Dir = dir
	if out, err := remote.CombinedOutput(); err != nil {
		t.Fatalf("git remote add: %v\n%s", err, out)
	}

	writeFile(t, dir, "index.html", "<html></html>")
	if err := p.Stage("index.html"); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if err := p.Commit("initial"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := p.Push(); err != nil {
		t.Fatalf("Push: %v", err)
	}
}

func TestPush_FailureKeepsCommit(t *testing.T) {
	dir := initRepo(t)
	p := NewPublisher(dir, "origin") // no remote configured

	writeFile(t, dir, "index.html", "<html></html>")
	if err := p.Stage("index.html"); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if err := p.Commit("initial"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := p.Push(); err == nil {
		t.Fatal("Push without remote should fail")
	}

	// The commit is still there.
	cmd := exec.Command("git", "log", "--oneline")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git log: %v", err)
	}
	if len(out) == 0 {
		t.Error("commit missing after failed push")
	}
}
