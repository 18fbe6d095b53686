package resp

import (
	"fmt"
	"io"

	"github.com/tidwall/redcon"

	"github.com/genc-murat/crystalstream/internal/core/models"
)

// Writer renders values and commands as RESP2. Maps are written as flat
// key/value arrays.
type Writer struct {
	wr  io.Writer
	buf []byte
}

func NewWriter(wr io.Writer) *Writer {
	return &Writer{wr: wr}
}

func (w *Writer) Write(v models.Value) error {
	b, err := AppendValue(w.buf[:0], v)
	if err != nil {
		return err
	}
	w.buf = b
	_, err = w.wr.Write(b)
	return err
}

// WriteCommand writes tokens as an array of bulk strings, the form
// commands take on the wire.
func (w *Writer) WriteCommand(tokens []string) error {
	w.buf = AppendCommand(w.buf[:0], tokens)
	_, err := w.wr.Write(w.buf)
	return err
}

func AppendCommand(b []byte, tokens []string) []byte {
	b = redcon.AppendArray(b, len(tokens))
	for _, t := range tokens {
		b = redcon.AppendBulkString(b, t)
	}
	return b
}

func AppendValue(b []byte, v models.Value) ([]byte, error) {
	var err error
	switch v.Kind {
	case models.KindNil:
		return redcon.AppendNull(b), nil
	case models.KindInteger:
		return redcon.AppendInt(b, v.Int), nil
	case models.KindBulk:
		return redcon.AppendBulkString(b, v.Bulk), nil
	case models.KindArray:
		b = redcon.AppendArray(b, len(v.Array))
		for _, item := range v.Array {
			if b, err = AppendValue(b, item); err != nil {
				return nil, err
			}
		}
		return b, nil
	case models.KindMap:
		b = redcon.AppendArray(b, len(v.Map)*2)
		for _, p := range v.Map {
			if b, err = AppendValue(b, p.Key); err != nil {
				return nil, err
			}
			if b, err = AppendValue(b, p.Value); err != nil {
				return nil, err
			}
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown kind: %v", v.Kind)
	}
}
