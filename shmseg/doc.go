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

// Package shmseg provides a thin wrapper over one OS shared-memory object
// identified by a 32-bit integer key.
//
// A Segment backs its bytes with a file under /dev/shm (falling back to the
// OS temp directory when /dev/shm is unavailable), memory-mapped with
// MAP_SHARED so that writes become visible to every process attached to the
// same key. Segment itself carries no protocol: it is read-at-offset,
// write-at-offset, capacity, mark-for-deletion and close. The parcel
// package layers a header and a relocation protocol on top of it.
package shmseg
