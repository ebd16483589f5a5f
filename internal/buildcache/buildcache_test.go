package buildcache

// Notes:
// - Load never fails: corrupt or outdated files degrade to an empty cache
// - Save is exercised through a reload round trip, not by inspecting YAML

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Fingerprint
// ---------------------------------------------------------------------------

func TestFingerprint(t *testing.T) {
	t.Parallel()

	base := Fingerprint([]byte("# Guide"), "static", "a4")

	tests := []struct {
		name     string
		got      string
		wantSame bool
	}{
		{name: "identical input", got: Fingerprint([]byte("# Guide"), "static", "a4"), wantSame: true},
		{name: "content changed", got: Fingerprint([]byte("# Guide!"), "static", "a4")},
		{name: "salt changed", got: Fingerprint([]byte("# Guide"), "live", "a4")},
		{name: "salt order matters", got: Fingerprint([]byte("# Guide"), "a4", "static")},
		{name: "salt boundary shifted", got: Fingerprint([]byte("# Guide"), "stati", "ca4")},
		{name: "no salts", got: Fingerprint([]byte("# Guide"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if same := tt.got == base; same != tt.wantSame {
				t.Errorf("Fingerprint() equal to base = %v, want %v", same, tt.wantSame)
			}
		})
	}

	if len(base) != 64 {
		t.Errorf("len(Fingerprint()) = %d, want 64 hex chars", len(base))
	}
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad_Degrades(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string // empty means no file
	}{
		{name: "missing file"},
		{name: "corrupt YAML", content: "entries: [unclosed"},
		{name: "other version", content: "version: 99\nentries:\n  html:guide.md: abc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tt.content != "" {
				if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tt.content), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			c := Load(dir)
			if c.Len() != 0 {
				t.Errorf("Len() = %d, want empty cache", c.Len())
			}
			if c.Fresh("html:guide.md", "abc") {
				t.Error("Fresh() = true on an empty cache")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Fresh / Put / Forget / Save
// ---------------------------------------------------------------------------

func TestCache_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "docs")
	c := Load(dir)

	fp := Fingerprint([]byte("body"))
	c.Put("html:guide.md", fp)
	c.Put("pdf:guide.md", fp)

	if !c.Fresh("html:guide.md", fp) {
		t.Error("Fresh() = false right after Put")
	}
	if c.Fresh("html:guide.md", Fingerprint([]byte("other"))) {
		t.Error("Fresh() = true for a different fingerprint")
	}

	if err := c.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded := Load(dir)
	if reloaded.Len() != 2 {
		t.Fatalf("reloaded Len() = %d, want 2", reloaded.Len())
	}
	if !reloaded.Fresh("pdf:guide.md", fp) {
		t.Error("reloaded cache lost pdf:guide.md")
	}

	reloaded.Forget("pdf:guide.md")
	if reloaded.Fresh("pdf:guide.md", fp) {
		t.Error("Fresh() = true after Forget")
	}
	if err := reloaded.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if Load(dir).Len() != 1 {
		t.Error("Forget was not persisted")
	}
}

func TestCache_SaveWithoutChangesWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := Load(dir)
	c.Forget("missing")

	if err := c.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(c.Path()); !os.IsNotExist(err) {
		t.Errorf("cache file written without changes (stat err = %v)", err)
	}
}

func TestCache_ConcurrentPut(t *testing.T) {
	t.Parallel()

	c := Load(t.TempDir())

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := string(rune('a' + i))
			c.Put(key, Fingerprint([]byte(key)))
		}()
	}
	wg.Wait()

	if c.Len() != 16 {
		t.Errorf("Len() = %d, want 16", c.Len())
	}
}
