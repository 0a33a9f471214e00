// Package pf decodes and re-encodes the fixed-layout party finder listing
// batch exchanged with the upstream transport. The layout is a byte-exact
// contract: offsets, record size, and total batch size must not drift, and a
// re-encoded batch is byte-for-byte identical to its input except for
// listings that were zeroed.
package pf

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	// NumListings is the fixed slot count per batch. Suppressed listings are
	// zeroed in place, never removed.
	NumListings = 4

	// ListingSize is the byte size of one listing record.
	ListingSize = 352

	headerSize = 12

	// BatchSize is the total byte size of one listing batch.
	BatchSize = headerSize + NumListings*ListingSize

	nameLen  = 32
	descLen  = 192
	numSlots = 8
)

// Field offsets within one listing record.
const (
	offID               = 4
	offCategory         = 25
	offDuty             = 28
	offDutyType         = 30
	offWorld            = 42
	offObjective        = 52
	offBeginnersWelcome = 53
	offConditions       = 54
	offDutyFinder       = 55
	offLootRules        = 56
	offSecondsRemaining = 64
	offMinItemLevel     = 72
	offHomeWorld        = 74
	offCurrentWorld     = 76
	offSearchArea       = 82
	offSlots            = 88
	offName             = 128
	offDescription      = 160
)

// ErrMalformedBatch is returned when the input length does not equal
// BatchSize. The caller should pass its buffer through unmodified.
var ErrMalformedBatch = errors.New("pf: batch length mismatch")

// SearchArea is the listing's search-area flag byte.
type SearchArea byte

const (
	SearchAreaDataCentre         SearchArea = 1 << 0
	SearchAreaPrivate            SearchArea = 1 << 1
	SearchAreaAllianceDataCentre SearchArea = 1 << 2
	SearchAreaWorld              SearchArea = 1 << 3
	SearchAreaOnePlayerPerJob    SearchArea = 1 << 5
)

// Has reports whether flag is set.
func (s SearchArea) Has(flag SearchArea) bool {
	return s&flag != 0
}

// Batch is one decoded listing batch. It owns a copy of the raw bytes;
// listings are views into that buffer, so zeroing a listing and re-encoding
// preserves every untouched byte.
type Batch struct {
	buf [BatchSize]byte
}

// Decode reinterprets data as a listing batch. Field contents are trusted
// once the length is correct; only the length is validated.
func Decode(data []byte) (*Batch, error) {
	if len(data) != BatchSize {
		return nil, ErrMalformedBatch
	}

	b := &Batch{}
	copy(b.buf[:], data)

	return b, nil
}

// Encode returns the batch as a fresh BatchSize-byte buffer.
func (b *Batch) Encode() []byte {
	out := make([]byte, BatchSize)
	copy(out, b.buf[:])

	return out
}

// BatchNumber is the sequence identifier from the batch header. The same
// batch is retransmitted with an unchanged number until a new set begins.
func (b *Batch) BatchNumber() uint32 {
	return binary.LittleEndian.Uint32(b.buf[:4])
}

// Listing returns a view of the i-th listing record. i must be in
// [0, NumListings).
func (b *Batch) Listing(i int) Listing {
	start := headerSize + i*ListingSize

	return Listing{buf: b.buf[start : start+ListingSize]}
}

// Suppress zeroes the i-th listing record in place.
func (b *Batch) Suppress(i int) {
	start := headerSize + i*ListingSize
	clear(b.buf[start : start+ListingSize])
}

// Listing is a read view over one record inside a batch buffer.
type Listing struct {
	buf []byte
}

func (l Listing) ID() uint32 {
	return binary.LittleEndian.Uint32(l.buf[offID:])
}

func (l Listing) Category() byte {
	return l.buf[offCategory]
}

func (l Listing) Duty() uint16 {
	return binary.LittleEndian.Uint16(l.buf[offDuty:])
}

func (l Listing) DutyType() byte {
	return l.buf[offDutyType]
}

func (l Listing) World() uint16 {
	return binary.LittleEndian.Uint16(l.buf[offWorld:])
}

func (l Listing) Objective() byte {
	return l.buf[offObjective]
}

func (l Listing) BeginnersWelcome() bool {
	return l.buf[offBeginnersWelcome] != 0
}

func (l Listing) Conditions() byte {
	return l.buf[offConditions]
}

func (l Listing) DutyFinderSettings() byte {
	return l.buf[offDutyFinder]
}

func (l Listing) LootRules() byte {
	return l.buf[offLootRules]
}

func (l Listing) SecondsRemaining() uint16 {
	return binary.LittleEndian.Uint16(l.buf[offSecondsRemaining:])
}

func (l Listing) MinItemLevel() uint16 {
	return binary.LittleEndian.Uint16(l.buf[offMinItemLevel:])
}

func (l Listing) HomeWorld() uint16 {
	return binary.LittleEndian.Uint16(l.buf[offHomeWorld:])
}

func (l Listing) CurrentWorld() uint16 {
	return binary.LittleEndian.Uint16(l.buf[offCurrentWorld:])
}

func (l Listing) SearchArea() SearchArea {
	return SearchArea(l.buf[offSearchArea])
}

// Slot returns the i-th job-slot code. i must be in [0, 8).
func (l Listing) Slot(i int) uint32 {
	return binary.LittleEndian.Uint32(l.buf[offSlots+i*4:])
}

// IsNull reports whether the record is empty. A valid listing has at least
// one job slot set.
func (l Listing) IsNull() bool {
	for i := 0; i < numSlots; i++ {
		if l.Slot(i) != 0 {
			return false
		}
	}

	return true
}

// Name decodes the recruiter name: bytes up to the first NUL, as UTF-8.
func (l Listing) Name() string {
	return cString(l.buf[offName : offName+nameLen])
}

// Description decodes the listing description: bytes up to the first NUL, as
// UTF-8.
func (l Listing) Description() string {
	return cString(l.buf[offDescription : offDescription+descLen])
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return string(b)
}
