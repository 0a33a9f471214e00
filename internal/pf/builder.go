package pf

import "encoding/binary"

// Mutators for building batches. The filter path only ever zeroes whole
// records; these exist for tooling and tests that need to synthesize
// transport-shaped batches.

// NewBatch returns an all-zero batch with the given batch number.
func NewBatch(batchNumber uint32) *Batch {
	b := &Batch{}
	b.SetBatchNumber(batchNumber)

	return b
}

func (b *Batch) SetBatchNumber(n uint32) {
	binary.LittleEndian.PutUint32(b.buf[:4], n)
}

func (l Listing) SetID(id uint32) {
	binary.LittleEndian.PutUint32(l.buf[offID:], id)
}

func (l Listing) SetCategory(c byte) {
	l.buf[offCategory] = c
}

func (l Listing) SetDuty(d uint16) {
	binary.LittleEndian.PutUint16(l.buf[offDuty:], d)
}

func (l Listing) SetWorld(w uint16) {
	binary.LittleEndian.PutUint16(l.buf[offWorld:], w)
}

func (l Listing) SetMinItemLevel(lvl uint16) {
	binary.LittleEndian.PutUint16(l.buf[offMinItemLevel:], lvl)
}

func (l Listing) SetSearchArea(s SearchArea) {
	l.buf[offSearchArea] = byte(s)
}

func (l Listing) SetSlot(i int, code uint32) {
	binary.LittleEndian.PutUint32(l.buf[offSlots+i*4:], code)
}

// SetName writes name as NUL-terminated UTF-8, truncated to the field size.
func (l Listing) SetName(name string) {
	setString(l.buf[offName:offName+nameLen], name)
}

// SetDescription writes desc as NUL-terminated UTF-8, truncated to the field
// size.
func (l Listing) SetDescription(desc string) {
	setString(l.buf[offDescription:offDescription+descLen], desc)
}

func setString(dst []byte, s string) {
	clear(dst)

	if len(s) > len(dst) {
		s = s[:len(dst)]
	}

	copy(dst, s)
}
