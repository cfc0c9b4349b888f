package imports

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFingerprint_KnownDigest(t *testing.T) {
	// SHA-256 of the empty string is a fixed vector.
	path := writeFile(t, t.TempDir(), "empty.mp4", nil)

	got, err := Fingerprint(context.Background(), path)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got != want {
		t.Errorf("hash = %s, want %s", got, want)
	}
}

func TestFingerprint_IdenticalContentSameHash(t *testing.T) {
	dir := t.TempDir()
	content := []byte(strings.Repeat("frame data ", 100000)) // > 1 chunk
	a := writeFile(t, dir, "a.mp4", content)
	b := writeFile(t, dir, "b.mp4", content)

	hashA, err := Fingerprint(context.Background(), a)
	if err != nil {
		t.Fatalf("Fingerprint(a): %v", err)
	}
	hashB, err := Fingerprint(context.Background(), b)
	if err != nil {
		t.Fatalf("Fingerprint(b): %v", err)
	}
	if hashA != hashB {
		t.Errorf("identical content produced different hashes: %s vs %s", hashA, hashB)
	}
	if hashA != strings.ToLower(hashA) {
		t.Errorf("hash %s is not lower-case", hashA)
	}
}

func TestFingerprint_DifferentContentDifferentHash(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.mp4", []byte("one"))
	b := writeFile(t, dir, "b.mp4", []byte("two"))

	hashA, _ := Fingerprint(context.Background(), a)
	hashB, _ := Fingerprint(context.Background(), b)
	if hashA == hashB {
		t.Error("different content produced the same hash")
	}
}

func TestFingerprint_MissingFile(t *testing.T) {
	_, err := Fingerprint(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFingerprint_Canceled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.mp4", []byte("data"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Fingerprint(ctx, path); err == nil {
		t.Error("expected error for canceled context")
	}
}
