/*
 *
 * Copyright 2025 gRPC authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package shmseg

import (
	"fmt"
	"os"
	"path/filepath"
)

// HeaderSize is the number of bytes every segment reserves before its
// payload area. The parcel package writes its 7-byte wire header here; the
// remaining bytes up to Capacity() are payload capacity.
const HeaderSize = 7

// Key identifies a shared-memory segment. Keys are caller-chosen 32-bit
// unsigned integers; two independently-created segments at the same key
// race for creation and the loser observes ErrExists.
type Key uint32

// platform-specific functions, wired up by the build-tagged file for this
// GOOS/GOARCH combination. Segments are unusable (every call fails with
// ErrUnsupported) until one of those files' init() runs.
var (
	createBacking func(path string, totalSize int64) (*os.File, []byte, error)
	openBacking   func(path string) (*os.File, []byte, error)
	unmapBacking  func([]byte) error
)

// Segment is a memory-mapped shared-memory object backed by a single OS
// file. mem is the full mapped region; HeaderSize bytes at its start are
// reserved for the parcel wire header, with payload capacity starting at
// offset HeaderSize.
type Segment struct {
	key  Key
	path string
	file *os.File
	mem  []byte
}

// backingPath returns the file path backing the segment for key. /dev/shm is
// preferred (tmpfs-backed, no disk I/O); the OS temp directory is the
// fallback when /dev/shm does not exist.
func backingPath(key Key) string {
	name := fmt.Sprintf("parcel_%08x", uint32(key))
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return filepath.Join("/dev/shm", name)
	}
	return filepath.Join(os.TempDir(), name)
}

// Create creates a new segment at key with the given total byte length
// (including the HeaderSize-byte header region) and permission bits. It
// fails with ErrExists if a segment already exists at key, or wraps the
// underlying OS error otherwise. Initial bytes are zero.
func Create(key Key, perm os.FileMode, totalSize int) (*Segment, error) {
	if createBacking == nil {
		return nil, ErrUnsupported
	}
	if totalSize < HeaderSize {
		return nil, fmt.Errorf("shmseg: total size %d smaller than header size %d", totalSize, HeaderSize)
	}
	path := backingPath(key)
	file, mem, err := createBacking(path, int64(totalSize))
	if err != nil {
		return nil, err
	}
	if err := file.Chmod(perm); err != nil {
		unmapBacking(mem)
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("shmseg: chmod segment: %w", err)
	}
	return &Segment{key: key, path: path, file: file, mem: mem}, nil
}

// Open attaches read/write to an existing segment at key without creating
// it. It fails with ErrNotExist if no segment exists there.
func Open(key Key) (*Segment, error) {
	if openBacking == nil {
		return nil, ErrUnsupported
	}
	path := backingPath(key)
	file, mem, err := openBacking(path)
	if err != nil {
		return nil, err
	}
	return &Segment{key: key, path: path, file: file, mem: mem}, nil
}

// Key returns the segment's key.
func (s *Segment) Key() Key {
	return s.key
}

// Capacity returns the current OS-reported size of the segment in bytes,
// including the HeaderSize-byte header region.
func (s *Segment) Capacity() int {
	return len(s.mem)
}

// ReadAt returns a copy of length bytes starting at offset. It fails with
// ErrOutOfRange if the requested range exceeds Capacity().
func (s *Segment) ReadAt(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(s.mem) {
		return nil, ErrOutOfRange
	}
	out := make([]byte, length)
	copy(out, s.mem[offset:offset+length])
	return out, nil
}

// WriteAt writes data starting at offset. It fails with ErrOutOfRange if the
// write would extend past Capacity(); partial writes never occur.
func (s *Segment) WriteAt(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > len(s.mem) {
		return ErrOutOfRange
	}
	copy(s.mem[offset:offset+len(data)], data)
	return nil
}

// MarkDeleted requests that the OS reclaim the segment's backing storage
// once every attached process has closed it. The segment remains readable
// and writable by processes that keep it open until they call Close.
func (s *Segment) MarkDeleted() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("shmseg: mark deleted: %w", err)
	}
	return nil
}

// Close unmaps the segment and closes its file descriptor. Close is
// idempotent: calling it more than once is a no-op.
func (s *Segment) Close() error {
	var firstErr error
	if s.mem != nil {
		if err := unmapBacking(s.mem); err != nil {
			firstErr = err
		}
		s.mem = nil
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.file = nil
	}
	return firstErr
}
