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

// Package shmmutex implements a cross-process mutex: a counting semaphore
// with maximum 1, initialised to 1, addressable by a serializable integer
// key so it keeps working after fork/exec and across handle
// (de)serialization.
//
// It is backed by a single-member System V semaphore set (via
// golang.org/x/sys/unix's Semget/Semop/SemctlInt), the kernel object that
// most directly matches "counting semaphore, survives fork, has a stable
// numeric name". SEM_UNDO is set on every operation so a holder that exits
// or is killed without releasing still relinquishes the semaphore, keeping
// the release-on-every-exit-path contract honest even across a crash.
package shmmutex
