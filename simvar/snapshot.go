// simvar/snapshot.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package simvar

import (
	"compress/flate"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const SnapshotVersion = 1

// Snapshot holds the persisted contents of a Memory store.
type Snapshot struct {
	Version int              `msgpack:"version"`
	Saved   time.Time        `msgpack:"saved"`
	Vars    map[string]Value `msgpack:"vars"`
}

// SaveSnapshot writes the snapshot to path as flate-compressed msgpack.
func SaveSnapshot(path string, s Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Write to a temporary file and rename so that a crash mid-write
	// doesn't leave a truncated snapshot behind.
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	fw, err := flate.NewWriter(f, flate.BestSpeed)
	if err != nil {
		f.Close()
		return err
	}

	s.Saved = time.Now()
	if err := msgpack.NewEncoder(fw).Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := fw.Close(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSnapshot reads a snapshot previously written by SaveSnapshot.
func LoadSnapshot(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()

	fr := flate.NewReader(f)
	defer fr.Close()

	var s Snapshot
	if err := msgpack.NewDecoder(fr).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	if s.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%s: version %d: %w", path, s.Version, ErrSnapshotVersion)
	}
	return s, nil
}
