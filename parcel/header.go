package parcel

import (
	"encoding/binary"
	"os"
)

// HeaderSize is the fixed 7-byte on-segment header: state(1) + sizeOrKey(4
// LE) + permissions(2 LE). Payload begins at offset HeaderSize.
const HeaderSize = 7

// header is the decoded form of the 7 bytes at segment offset 0.
//
// sizeOrKey is overloaded by design: when state is Allocated it is the
// payload length; when state is Moved it is the next segment's key. Kept
// overloaded rather than widened so the header stays exactly 7 bytes.
type header struct {
	state       State
	sizeOrKey   uint32
	permissions uint16
}

func decodeHeader(buf []byte) (header, error) {
	if len(buf) < HeaderSize {
		return header{}, ErrCorrupt
	}
	return header{
		state:       State(buf[0]),
		sizeOrKey:   binary.LittleEndian.Uint32(buf[1:5]),
		permissions: binary.LittleEndian.Uint16(buf[5:7]),
	}, nil
}

func (h header) encode() []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = byte(h.state)
	binary.LittleEndian.PutUint32(buf[1:5], h.sizeOrKey)
	binary.LittleEndian.PutUint16(buf[5:7], h.permissions)
	return buf
}

// permToMode converts a stored permission mask back to an os.FileMode for
// passing to shmseg.Create on relocation or clone.
func permToMode(perm uint16) os.FileMode {
	return os.FileMode(perm).Perm()
}
