package fspaths

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(rel), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func join(root string, rels ...string) []string {
	out := make([]string, 0, len(rels))
	for _, r := range rels {
		out = append(out, filepath.Join(root, filepath.FromSlash(r)))
	}
	return out
}

func TestExpand_FilesOnlyIsIdentity(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "b.txt", "a.txt", "c.md")
	in := join(root, "b.txt", "a.txt", "c.md")

	got, err := Expand(in, Options{})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("expected %v, got %v", in, got)
	}
}

func TestExpand_DirectoryDepthFirst(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "dir/b.txt", "dir/c.txt")

	got, err := Expand(join(root, "a.txt", "dir"), Options{})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	want := join(root, "a.txt", "dir/b.txt", "dir/c.txt")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExpand_NestedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "docs/a.md", "docs/sub/deep/b.md", "docs/sub/c.md", "docs/z.md")

	got, err := Expand(join(root, "docs"), Options{})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	want := join(root, "docs/a.md", "docs/sub/c.md", "docs/sub/deep/b.md", "docs/z.md")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExpand_EmptyAndMissing(t *testing.T) {
	got, err := Expand(nil, Options{})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}

	root := t.TempDir()
	writeFiles(t, root, "keep.txt")
	if err := os.Mkdir(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, err = Expand(join(root, "missing.txt", "empty", "keep.txt", ""), Options{})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	want := join(root, "keep.txt")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExpand_Dedupes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "dir/a.txt", "dir/b.txt")

	got, err := Expand(join(root, "dir/b.txt", "dir", "dir/a.txt"), Options{})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	want := join(root, "dir/b.txt", "dir/a.txt")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExpand_SymlinkToFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "real/a.txt")
	if err := os.MkdirAll(filepath.Join(root, "dir"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "real", "a.txt"), filepath.Join(root, "dir", "link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "nowhere"), filepath.Join(root, "dir", "dangling")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := Expand(join(root, "dir"), Options{})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	want := join(root, "dir/link.txt")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExpand_IncludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "kb/a.md", "kb/b.txt", "kb/sub/c.md", "top.txt")

	got, err := Expand(join(root, "kb", "top.txt"), Options{Include: []string{"**/*.md", " "}})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	// Directly selected files are not filtered.
	want := join(root, "kb/a.md", "kb/sub/c.md", "top.txt")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExpand_RespectGitignore(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"repo/.gitignore",
		"repo/keep.md",
		"repo/build/out.bin",
		"repo/.git/HEAD",
		"repo/notes.log",
	)
	if err := os.WriteFile(filepath.Join(root, "repo", ".gitignore"), []byte("build/\n*.log\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Expand(join(root, "repo"), Options{RespectGitignore: true})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	want := join(root, "repo/.gitignore", "repo/keep.md")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	all, err := Expand(join(root, "repo"), Options{})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected every file without gitignore, got %v", all)
	}
}

func TestExpand_OnFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "d/a.txt", "d/b.txt")

	var seen []string
	got, err := Expand(join(root, "d", "d/a.txt"), Options{OnFile: func(p string) { seen = append(seen, p) }})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	if !reflect.DeepEqual(seen, got) {
		t.Fatalf("expected callbacks %v to match result %v", seen, got)
	}
}

func TestExpand_SymlinkedDirectoryRoot(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "real/x.txt", "real/y/z.txt")
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := Expand(join(root, "alias"), Options{})
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	want := join(root, "alias/x.txt", "alias/y/z.txt")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
