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

package shmmutex

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func init() {
	createSem = createSemUnix
	openSem = openSemUnix
	acquire = acquireUnix
	release = releaseUnix
	removeSem = removeSemUnix
}

const semCountInSet = 1 // number of semaphores in the set

func createSemUnix(key Key, perm os.FileMode) (int, error) {
	id, err := unix.Semget(int(key), semCountInSet, unix.IPC_CREAT|unix.IPC_EXCL|int(perm.Perm()))
	if err != nil {
		if err == unix.EEXIST {
			return 0, ErrExists
		}
		return 0, fmt.Errorf("shmmutex: semget create: %w", err)
	}
	if _, err := unix.SemctlInt(id, 0, unix.SETVAL, 1); err != nil {
		unix.SemctlInt(id, 0, unix.IPC_RMID, 0)
		return 0, fmt.Errorf("shmmutex: semctl setval: %w", err)
	}
	return id, nil
}

func openSemUnix(key Key) (int, error) {
	id, err := unix.Semget(int(key), semCountInSet, 0)
	if err != nil {
		if err == unix.ENOENT {
			return 0, ErrNotExist
		}
		return 0, fmt.Errorf("shmmutex: semget open: %w", err)
	}
	return id, nil
}

// acquireUnix decrements the semaphore, blocking until it is non-zero.
// SEM_UNDO registers an undo entry with the kernel so the decrement is
// reversed automatically if this process exits (normally or via signal)
// while still holding it.
func acquireUnix(id int) error {
	sops := []unix.Sembuf{{SemNum: 0, SemOp: -1, SemFlg: unix.SEM_UNDO}}
	for {
		err := unix.Semop(id, sops)
		if err == nil {
			return nil
		}
		if err == unix.EINTR {
			continue
		}
		return fmt.Errorf("shmmutex: semop acquire: %w", err)
	}
}

func releaseUnix(id int) error {
	sops := []unix.Sembuf{{SemNum: 0, SemOp: 1, SemFlg: unix.SEM_UNDO}}
	for {
		err := unix.Semop(id, sops)
		if err == nil {
			return nil
		}
		if err == unix.EINTR {
			continue
		}
		return fmt.Errorf("shmmutex: semop release: %w", err)
	}
}

func removeSemUnix(id int) error {
	if _, err := unix.SemctlInt(id, 0, unix.IPC_RMID, 0); err != nil {
		if err == unix.EINVAL {
			return nil // already removed
		}
		return fmt.Errorf("shmmutex: semctl rmid: %w", err)
	}
	return nil
}
