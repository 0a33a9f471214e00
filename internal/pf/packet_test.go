package pf

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestDecodeLengthValidation(t *testing.T) {
	tests := []struct {
		name string
		size int
		ok   bool
	}{
		{name: "exact size", size: BatchSize, ok: true},
		{name: "empty", size: 0, ok: false},
		{name: "one short", size: BatchSize - 1, ok: false},
		{name: "one long", size: BatchSize + 1, ok: false},
		{name: "single listing", size: ListingSize, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(make([]byte, tt.size))
			if tt.ok && err != nil {
				t.Errorf("Decode() error = %v, want nil", err)
			}

			if !tt.ok && !errors.Is(err, ErrMalformedBatch) {
				t.Errorf("Decode() error = %v, want ErrMalformedBatch", err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// Round-trip law: decode(encode) is the identity for arbitrary bytes,
	// and the size is always preserved.
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 16; i++ {
		data := make([]byte, BatchSize)
		rng.Read(data)

		batch, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}

		out := batch.Encode()
		if len(out) != BatchSize {
			t.Fatalf("Encode() length = %d, want %d", len(out), BatchSize)
		}

		if !bytes.Equal(out, data) {
			t.Fatal("Encode() does not reproduce input bytes")
		}
	}
}

func TestFieldAccessors(t *testing.T) {
	batch := NewBatch(7)

	l := batch.Listing(2)
	l.SetID(0xdeadbeef)
	l.SetCategory(3)
	l.SetDuty(55)
	l.SetWorld(73)
	l.SetMinItemLevel(475)
	l.SetSearchArea(SearchAreaDataCentre | SearchAreaPrivate)
	l.SetSlot(0, 1)
	l.SetSlot(7, 0x40000000)
	l.SetName("Meteor Survivor")
	l.SetDescription("practice run, all welcome")

	if got := batch.BatchNumber(); got != 7 {
		t.Errorf("BatchNumber() = %d, want 7", got)
	}

	// Re-decode through bytes to prove the offsets agree in both directions.
	decoded, err := Decode(batch.Encode())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got := decoded.Listing(2)

	if got.ID() != 0xdeadbeef {
		t.Errorf("ID() = %#x, want 0xdeadbeef", got.ID())
	}

	if got.Category() != 3 {
		t.Errorf("Category() = %d, want 3", got.Category())
	}

	if got.Duty() != 55 {
		t.Errorf("Duty() = %d, want 55", got.Duty())
	}

	if got.World() != 73 {
		t.Errorf("World() = %d, want 73", got.World())
	}

	if got.MinItemLevel() != 475 {
		t.Errorf("MinItemLevel() = %d, want 475", got.MinItemLevel())
	}

	if !got.SearchArea().Has(SearchAreaPrivate) {
		t.Error("SearchArea() missing private flag")
	}

	if got.SearchArea().Has(SearchAreaWorld) {
		t.Error("SearchArea() has world flag it should not")
	}

	if got.Slot(0) != 1 || got.Slot(7) != 0x40000000 {
		t.Errorf("Slot() = %d, %d, want 1, 0x40000000", got.Slot(0), got.Slot(7))
	}

	if got.Name() != "Meteor Survivor" {
		t.Errorf("Name() = %q", got.Name())
	}

	if got.Description() != "practice run, all welcome" {
		t.Errorf("Description() = %q", got.Description())
	}

	// Neighbouring listings stay empty.
	if !decoded.Listing(1).IsNull() || !decoded.Listing(3).IsNull() {
		t.Error("neighbouring listings should be null")
	}
}

func TestIsNull(t *testing.T) {
	batch := NewBatch(1)

	l := batch.Listing(0)
	if !l.IsNull() {
		t.Error("zeroed listing should be null")
	}

	// A description alone does not make a listing valid.
	l.SetDescription("looks real")

	if !l.IsNull() {
		t.Error("listing with no slots should be null")
	}

	l.SetSlot(3, 2)

	if l.IsNull() {
		t.Error("listing with a slot set should not be null")
	}
}

func TestSuppressZeroesRecord(t *testing.T) {
	data := make([]byte, BatchSize)
	for i := range data {
		data[i] = byte(i)
	}

	batch, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	batch.Suppress(1)

	out := batch.Encode()
	if len(out) != BatchSize {
		t.Fatalf("Encode() length = %d, want %d", len(out), BatchSize)
	}

	start := headerSize + ListingSize
	for i, b := range out[start : start+ListingSize] {
		if b != 0 {
			t.Fatalf("byte %d of suppressed listing = %#x, want 0", i, b)
		}
	}

	// Everything outside the suppressed record is untouched.
	if !bytes.Equal(out[:start], data[:start]) {
		t.Error("bytes before suppressed listing changed")
	}

	if !bytes.Equal(out[start+ListingSize:], data[start+ListingSize:]) {
		t.Error("bytes after suppressed listing changed")
	}
}

func TestStringTruncation(t *testing.T) {
	batch := NewBatch(1)
	l := batch.Listing(0)

	long := make([]byte, 0, 300)
	for i := 0; i < 300; i++ {
		long = append(long, 'a')
	}

	l.SetDescription(string(long))

	if got := len(l.Description()); got != descLen {
		t.Errorf("Description() length = %d, want %d", got, descLen)
	}

	l.SetName("")

	if l.Name() != "" {
		t.Errorf("Name() = %q, want empty", l.Name())
	}
}
