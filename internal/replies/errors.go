package replies

import (
	"errors"
	"fmt"

	"github.com/genc-murat/crystalstream/internal/core/models"
)

var (
	// ErrShapeMismatch is matched by every ShapeError.
	ErrShapeMismatch = errors.New("reply shape mismatch")

	// ErrFieldConversion is matched by every ConversionError.
	ErrFieldConversion = errors.New("field conversion failed")
)

// ShapeError reports a reply whose nesting or value kind does not match the
// reply being decoded.
type ShapeError struct {
	Reply    string
	Path     string
	Expected string
	Got      models.Kind
	Len      int
}

func (e *ShapeError) Error() string {
	got := e.Got.String()
	if e.Got == models.KindArray || e.Got == models.KindMap {
		got = fmt.Sprintf("%s of %d", got, e.Len)
	}
	return fmt.Sprintf("%s: %s: expected %s, got %s", e.Reply, e.Path, e.Expected, got)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// ConversionError reports a value of the right kind that cannot be converted
// to the field's type, such as a non-numeric count.
type ConversionError struct {
	Reply string
	Path  string
	Value models.Value
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %s: cannot convert %v: %v", e.Reply, e.Path, e.Value, e.Err)
}

func (e *ConversionError) Is(target error) bool { return target == ErrFieldConversion }

func (e *ConversionError) Unwrap() error { return e.Err }
