package parcel

import (
	"hash/fnv"
	"math/rand"

	"github.com/outofband/shmparcel/shmseg"
)

// minRandomKey and maxRandomKey bound the fallback random key range used
// when sequential allocation wraps.
const (
	minRandomKey uint32 = 0x10
	maxRandomKey uint32 = 0xFFFFFFFE
)

// initialKey derives a starting segment key from a stable hash of identity,
// so two handles created independently almost never collide. Collisions
// surface as shmseg.ErrExists at creation time and are the caller's problem.
func initialKey(identity string) shmseg.Key {
	h := fnv.New32a()
	h.Write([]byte(identity))
	sum := h.Sum32()
	if sum < minRandomKey {
		sum += minRandomKey
	}
	return shmseg.Key(sum)
}

// nextKey picks the following key in a relocation chain: key+1 while key
// is below 0xFFFFFFFF, otherwise a random value in
// [minRandomKey, maxRandomKey].
func nextKey(current shmseg.Key) shmseg.Key {
	if uint32(current) < 0xFFFFFFFF {
		return current + 1
	}
	span := maxRandomKey - minRandomKey + 1
	return shmseg.Key(minRandomKey + rand.Uint32()%span)
}
