package sprig

import (
	"errors"
	"testing"
)

func TestStorageUploadAndResolve(t *testing.T) {
	b := NewSRBuffer(8)
	keys := []TransformKey{MakeKey(1, 0), MakeKey(2, 1), MakeKey(0.5, 3)}
	for _, k := range keys {
		if _, err := b.Add(k); err != nil {
			t.Fatal(err)
		}
	}
	buf, _ := b.CommitBytes()

	s := newTransformStorage(8)
	if err := s.upload(buf); err != nil {
		t.Fatalf("upload: %v", err)
	}
	for slot, k := range keys {
		got, ok := s.at(slot)
		if !ok || got != k.Matrix() {
			t.Errorf("at(%d) = %v, %v; want %v", slot, got, ok, k.Matrix())
		}
	}
	if _, ok := s.at(len(keys)); ok {
		t.Error("at(n) resolved past the uploaded range")
	}
	if _, ok := s.at(-1); ok {
		t.Error("at(-1) resolved")
	}
	if s.uploads != 1 || s.uploadBytes != len(keys)*matSize {
		t.Errorf("uploads/bytes = %d/%d", s.uploads, s.uploadBytes)
	}
}

func TestStorageUploadIsACopy(t *testing.T) {
	b := NewSRBuffer(4)
	_, _ = b.Add(MakeKey(2, 0))
	buf, _ := b.CommitBytes()

	s := newTransformStorage(4)
	if err := s.upload(buf); err != nil {
		t.Fatal(err)
	}

	// A new frame overwrites slot 0 in the buffer, not in storage.
	b.Reset()
	_, _ = b.Add(MakeKey(3, 0))
	if got, _ := s.at(0); got != MakeKey(2, 0).Matrix() {
		t.Errorf("storage changed with the buffer: %v", got)
	}
}

func TestStorageUploadErrors(t *testing.T) {
	s := newTransformStorage(2)

	if err := s.upload(make([]byte, matSize+1)); err == nil {
		t.Error("ragged upload accepted")
	}
	err := s.upload(make([]byte, 3*matSize))
	if !errors.Is(err, ErrStorageOverflow) {
		t.Errorf("oversized upload err = %v, want ErrStorageOverflow", err)
	}
	if s.uploads != 0 {
		t.Errorf("failed uploads counted: %d", s.uploads)
	}

	if err := s.upload(nil); err != nil {
		t.Errorf("empty upload: %v", err)
	}
	if _, ok := s.at(0); ok {
		t.Error("slot 0 resolvable after empty upload")
	}
}
