//go:build unix

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

	"golang.org/x/sys/unix"
)

func init() {
	createBacking = createBackingUnix
	openBacking = openBackingUnix
	unmapBacking = unmapBackingUnix
}

func createBackingUnix(path string, totalSize int64) (*os.File, []byte, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, nil, ErrExists
		}
		return nil, nil, fmt.Errorf("shmseg: create segment file %s: %w", path, err)
	}

	cleanup := func() {
		file.Close()
		os.Remove(path)
	}

	if err := unix.Ftruncate(int(file.Fd()), totalSize); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("shmseg: resize segment file: %w", err)
	}

	mem, err := unix.Mmap(int(file.Fd()), 0, int(totalSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("shmseg: mmap segment: %w", err)
	}
	return file, mem, nil
}

func openBackingUnix(path string) (*os.File, []byte, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNotExist
		}
		return nil, nil, fmt.Errorf("shmseg: open segment file %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("shmseg: stat segment file: %w", err)
	}
	size := info.Size()
	if size < HeaderSize {
		file.Close()
		return nil, nil, fmt.Errorf("shmseg: segment file too small: %d bytes", size)
	}

	mem, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("shmseg: mmap segment: %w", err)
	}
	return file, mem, nil
}

func unmapBackingUnix(mem []byte) error {
	if len(mem) == 0 {
		return nil
	}
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("shmseg: munmap segment: %w", err)
	}
	return nil
}
