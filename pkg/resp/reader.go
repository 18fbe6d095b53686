package resp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/genc-murat/crystalstream/internal/core/models"
)

// MaxLength caps bulk string lengths and aggregate element counts. It
// matches the store's default proto-max-bulk-len.
const MaxLength = 512 * 1024 * 1024

var ErrTooLarge = errors.New("resp: length exceeds limit")

// Error is a server error reply ("-ERR ...").
type Error string

func (e Error) Error() string { return string(e) }

type Reader struct {
	rd *bufio.Reader
}

func NewReader(rd io.Reader) *Reader {
	return &Reader{rd: bufio.NewReader(rd)}
}

// Buffered returns the number of bytes read from the source but not yet
// consumed by Read.
func (r *Reader) Buffered() int { return r.rd.Buffered() }

// Parse reads a single reply from b.
func Parse(b []byte) (models.Value, error) {
	return NewReader(bytes.NewReader(b)).Read()
}

// Read reads one RESP2 or RESP3 reply. Error replies are returned as Error.
func (r *Reader) Read() (models.Value, error) {
	typ, err := r.rd.ReadByte()
	if err != nil {
		return models.Value{}, err
	}
	v, err := r.readBody(typ)
	if err == io.EOF {
		// only a clean end between replies is io.EOF
		err = io.ErrUnexpectedEOF
	}
	return v, err
}

func (r *Reader) readBody(typ byte) (models.Value, error) {
	switch typ {
	case '+':
		return r.readSimpleString()
	case '-':
		return r.readError()
	case ':':
		return r.readInteger()
	case '$':
		return r.readBulkString()
	case '*':
		return r.readArray()
	case '%':
		return r.readMap()
	case '_':
		if _, err := r.readLine(); err != nil {
			return models.Value{}, err
		}
		return models.Nil(), nil
	default:
		return models.Value{}, fmt.Errorf("unknown type: %c", typ)
	}
}

func (r *Reader) readLine() ([]byte, error) {
	line, err := r.rd.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if len(line) < 2 || line[len(line)-2] != '\r' {
		return nil, fmt.Errorf("missing CRLF")
	}
	return line[:len(line)-2], nil
}

func (r *Reader) readSimpleString() (models.Value, error) {
	line, err := r.readLine()
	if err != nil {
		return models.Value{}, err
	}
	return models.Bulk(string(line)), nil
}

func (r *Reader) readError() (models.Value, error) {
	line, err := r.readLine()
	if err != nil {
		return models.Value{}, err
	}
	return models.Value{}, Error(line)
}

func (r *Reader) readInteger() (models.Value, error) {
	line, err := r.readLine()
	if err != nil {
		return models.Value{}, err
	}
	num, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return models.Value{}, err
	}
	return models.Integer(num), nil
}

func (r *Reader) readLength() (int, error) {
	line, err := r.readLine()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(string(line))
	if err != nil {
		return 0, err
	}
	if n > MaxLength {
		return 0, fmt.Errorf("%w: %d", ErrTooLarge, n)
	}
	return n, nil
}

func (r *Reader) readBulkString() (models.Value, error) {
	length, err := r.readLength()
	if err != nil {
		return models.Value{}, err
	}
	if length == -1 {
		return models.Nil(), nil
	}
	if length < 0 {
		return models.Value{}, fmt.Errorf("invalid bulk length: %d", length)
	}

	bulk := make([]byte, length+2)
	if _, err := io.ReadFull(r.rd, bulk); err != nil {
		return models.Value{}, err
	}
	if bulk[length] != '\r' || bulk[length+1] != '\n' {
		return models.Value{}, fmt.Errorf("missing CRLF after bulk string")
	}
	return models.Bulk(string(bulk[:length])), nil
}

func (r *Reader) readArray() (models.Value, error) {
	length, err := r.readLength()
	if err != nil {
		return models.Value{}, err
	}
	if length == -1 {
		return models.Nil(), nil
	}
	if length < 0 {
		return models.Value{}, fmt.Errorf("invalid array length: %d", length)
	}

	array := make([]models.Value, 0, min(length, 64))
	for i := 0; i < length; i++ {
		value, err := r.Read()
		if err != nil {
			return models.Value{}, err
		}
		array = append(array, value)
	}
	return models.Array(array...), nil
}

func (r *Reader) readMap() (models.Value, error) {
	length, err := r.readLength()
	if err != nil {
		return models.Value{}, err
	}
	if length < 0 {
		return models.Value{}, fmt.Errorf("invalid map length: %d", length)
	}

	pairs := make([]models.Pair, 0, min(length, 64))
	for i := 0; i < length; i++ {
		key, err := r.Read()
		if err != nil {
			return models.Value{}, err
		}
		value, err := r.Read()
		if err != nil {
			return models.Value{}, err
		}
		pairs = append(pairs, models.Pair{Key: key, Value: value})
	}
	return models.MapOf(pairs...), nil
}
