package scene

import (
	"errors"
	"fmt"
)

// Scene errors.
var (
	ErrTableSize        = errors.New("scene table has unexpected size")
	ErrRecordSize       = errors.New("scene record has unexpected size")
	ErrCursorOverrun    = errors.New("cursor overran its span")
	ErrCursorMisaligned = errors.New("cursor did not consume its span")
	ErrCameraData       = errors.New("camera data buffer too short")
	ErrInitialCamera    = errors.New("initial camera buffer too short")
	ErrNoCatalog        = errors.New("model catalog is required")
	ErrRecordPanic      = errors.New("record transform panicked")
	ErrUnknownOption    = errors.New("unknown option")
)

// SectionError reports a record whose transform stopped part way.
// The record keeps whatever bytes were written before the failure.
type SectionError struct {
	Record  int
	Section string
	Err     error
}

// Error returns the error message.
func (e *SectionError) Error() string {
	return fmt.Sprintf("record %d: section %s: %v", e.Record, e.Section, e.Err)
}

// Unwrap returns the underlying error.
func (e *SectionError) Unwrap() error {
	return e.Err
}

// Inconsistency records a formation slot whose model matches none of the
// record's enemy slots while enemy swarm is off. The slot is left as-is.
type Inconsistency struct {
	Record    int
	Formation int
	Slot      int
	Model     uint16
}

// String returns a readable description.
func (i Inconsistency) String() string {
	return fmt.Sprintf("record %d formation %d slot %d: model %d is not one of the record's enemies",
		i.Record, i.Formation, i.Slot, i.Model)
}

func panicError(p any) error {
	if err, ok := p.(error); ok {
		return fmt.Errorf("%w: %w", ErrRecordPanic, err)
	}
	return fmt.Errorf("%w: %v", ErrRecordPanic, p)
}
