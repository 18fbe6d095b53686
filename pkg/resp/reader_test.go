package resp

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genc-murat/crystalstream/internal/core/models"
)

func TestReader_Read(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  models.Value
	}{
		{"simple string", "+OK\r\n", models.Bulk("OK")},
		{"integer", ":-42\r\n", models.Integer(-42)},
		{"bulk", "$5\r\nhello\r\n", models.Bulk("hello")},
		{"empty bulk", "$0\r\n\r\n", models.Bulk("")},
		{"bulk with CRLF inside", "$4\r\na\r\nb\r\n", models.Bulk("a\r\nb")},
		{"null bulk", "$-1\r\n", models.Nil()},
		{"null array", "*-1\r\n", models.Nil()},
		{"resp3 null", "_\r\n", models.Nil()},
		{"empty array", "*0\r\n", models.Value{Kind: models.KindArray, Array: []models.Value{}}},
		{
			"nested array",
			"*2\r\n$3\r\n1-1\r\n*2\r\n$1\r\nf\r\n$1\r\nv\r\n",
			models.Array(models.Bulk("1-1"), models.Bulks("f", "v")),
		},
		{
			"resp3 map",
			"%2\r\n$6\r\nlength\r\n:2\r\n$6\r\ngroups\r\n:0\r\n",
			models.MapOf(models.BulkPair("length", models.Integer(2)), models.BulkPair("groups", models.Integer(0))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewReader(strings.NewReader(tt.input)).Read()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_ReadErrors(t *testing.T) {
	t.Run("ServerError", func(t *testing.T) {
		_, err := Parse([]byte("-ERR no such key\r\n"))
		var serr Error
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, "ERR no such key", serr.Error())
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := Parse([]byte("!oops\r\n"))
		assert.Error(t, err)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := Parse([]byte("$5\r\nhel"))
		assert.Error(t, err)
	})

	t.Run("TruncatedArray", func(t *testing.T) {
		_, err := Parse([]byte("*2\r\n$1\r\na\r\n"))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("OversizedLengths", func(t *testing.T) {
		for _, input := range []string{
			"$9223372036854775807\r\n",
			"*9223372036854775807\r\n",
			"%4611686018427387904\r\n",
			"$2000000000\r\n",
		} {
			_, err := Parse([]byte(input))
			assert.ErrorIs(t, err, ErrTooLarge, input)
		}
	})

	t.Run("LargeCountShortInput", func(t *testing.T) {
		_, err := Parse([]byte("*100000000\r\n:1\r\n"))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("EOF", func(t *testing.T) {
		_, err := NewReader(strings.NewReader("")).Read()
		assert.Equal(t, io.EOF, err)
	})
}

func TestReader_Sequential(t *testing.T) {
	r := NewReader(strings.NewReader(":1\r\n:2\r\n"))
	first, err := r.Read()
	require.NoError(t, err)
	second, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Int)
	assert.Equal(t, int64(2), second.Int)
}
