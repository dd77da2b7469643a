package parcel

import "testing"

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := header{state: Allocated, sizeOrKey: 0xDEADBEEF, permissions: 0o640}
	buf := h.encode()
	if len(buf) != HeaderSize {
		t.Fatalf("encode() length = %d, want %d", len(buf), HeaderSize)
	}

	got, err := decodeHeader(buf)
	if err != nil {
		t.Fatalf("decodeHeader() error = %v", err)
	}
	if got != h {
		t.Fatalf("decodeHeader() = %+v, want %+v", got, h)
	}
}

func TestDecodeHeaderTooShort(t *testing.T) {
	if _, err := decodeHeader([]byte{1, 2, 3}); err != ErrCorrupt {
		t.Fatalf("decodeHeader() error = %v, want ErrCorrupt", err)
	}
}

func TestNextKeyIncrementsByOne(t *testing.T) {
	got := nextKey(5)
	if got != 6 {
		t.Fatalf("nextKey(5) = %v, want 6", got)
	}
}

func TestInitialKeyIsStable(t *testing.T) {
	a := initialKey("same-identity")
	b := initialKey("same-identity")
	if a != b {
		t.Fatalf("initialKey() not stable: %v != %v", a, b)
	}
}
