package mapserialize

import (
	"errors"
	"fmt"
)

var (
	ErrStreamUnderrun     = errors.New("stream underrun")
	ErrStructuralMismatch = errors.New("container terminator mismatch")
	ErrLegacyBed          = errors.New("legacy bed record")
	ErrAttributes         = errors.New("attribute decode failed")
)

// DecodeError carries the item a decode failure happened in.
type DecodeError struct {
	TypeID uint16
	Op     string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: item %d: %v", e.Op, e.TypeID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(op string, typeID uint16, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{TypeID: typeID, Op: op, Err: err}
}
