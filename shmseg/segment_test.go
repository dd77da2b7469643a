package shmseg

import (
	"os"
	"testing"
)

func testKey(t *testing.T) Key {
	t.Helper()
	return Key(uint32(os.Getpid())*131 + uint32(len(t.Name())))
}

func TestCreateOpenRoundTrip(t *testing.T) {
	key := testKey(t)
	seg, err := Create(key, 0o600, 4096)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer func() {
		seg.MarkDeleted()
		seg.Close()
	}()

	if seg.Capacity() != 4096 {
		t.Fatalf("Capacity() = %d, want 4096", seg.Capacity())
	}

	payload := []byte("hello world")
	if err := seg.WriteAt(HeaderSize, payload); err != nil {
		t.Fatalf("WriteAt() error = %v", err)
	}

	other, err := Open(key)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer other.Close()

	got, err := other.ReadAt(HeaderSize, len(payload))
	if err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("ReadAt() = %q, want %q", got, payload)
	}
}

func TestCreateExistingFails(t *testing.T) {
	key := testKey(t)
	seg, err := Create(key, 0o600, 4096)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer func() {
		seg.MarkDeleted()
		seg.Close()
	}()

	if _, err := Create(key, 0o600, 4096); err != ErrExists {
		t.Fatalf("second Create() error = %v, want ErrExists", err)
	}
}

func TestOpenMissingFails(t *testing.T) {
	key := testKey(t)
	if _, err := Open(key); err != ErrNotExist {
		t.Fatalf("Open() error = %v, want ErrNotExist", err)
	}
}

func TestWriteOutOfRange(t *testing.T) {
	key := testKey(t)
	seg, err := Create(key, 0o600, 16)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer func() {
		seg.MarkDeleted()
		seg.Close()
	}()

	if err := seg.WriteAt(10, []byte("0123456789")); err != ErrOutOfRange {
		t.Fatalf("WriteAt() error = %v, want ErrOutOfRange", err)
	}
	if _, err := seg.ReadAt(0, 1000); err != ErrOutOfRange {
		t.Fatalf("ReadAt() error = %v, want ErrOutOfRange", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	key := testKey(t)
	seg, err := Create(key, 0o600, 16)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	seg.MarkDeleted()

	if err := seg.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := seg.Close(); err != nil {
		t.Fatalf("second Close() error = %v, want nil (idempotent)", err)
	}
}

func TestMarkDeletedKeepsSegmentUsable(t *testing.T) {
	key := testKey(t)
	seg, err := Create(key, 0o600, 16)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer seg.Close()

	if err := seg.MarkDeleted(); err != nil {
		t.Fatalf("MarkDeleted() error = %v", err)
	}
	if err := seg.WriteAt(0, []byte("ok")); err != nil {
		t.Fatalf("WriteAt() after MarkDeleted error = %v", err)
	}
}
