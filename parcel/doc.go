// Package parcel implements a shared-memory container that holds a single
// logically-typed value so cooperating processes can read and mutate it
// under mutual exclusion. It layers a binary header protocol over shmseg.Segment
// for relocation on overflow and uses shmmutex.Mutex to linearise
// read-modify-write cycles across processes.
package parcel
