package build

import (
	"bytes"
	"hash/crc32"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// writer writes export output below a root directory, leaving files whose
// content is unchanged untouched so their modification times survive
// repeated exports.
type writer struct {
	root string

	mu      sync.Mutex
	written []string
	skipped int
}

func newWriter(root string) *writer {
	return &writer{root: root}
}

// write stores content at rel, creating parent folders.
func (w *writer) write(rel string, content []byte) error {
	path := filepath.Join(w.root, rel)

	if same, err := sameContent(path, content); err == nil && same {
		w.record(rel, true)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return err
	}
	w.record(rel, false)
	return nil
}

// copy stores the file at src under rel.
func (w *writer) copy(src, rel string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return w.write(rel, content)
}

func (w *writer) record(rel string, unchanged bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.written = append(w.written, filepath.ToSlash(rel))
	if unchanged {
		w.skipped++
	}
}

// files lists every output path, slash separated and sorted.
func (w *writer) files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := append([]string(nil), w.written...)
	sort.Strings(out)
	return out
}

func (w *writer) unchanged() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.skipped
}

// sameContent compares the file at path with content by size, then
// checksum, then bytes.
func sameContent(path string, content []byte) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.IsDir() || info.Size() != int64(len(content)) {
		return false, nil
	}
	existing, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if crc32.Checksum(existing, crcTable) != crc32.Checksum(content, crcTable) {
		return false, nil
	}
	return bytes.Equal(existing, content), nil
}
