package replies

import (
	"strings"

	"github.com/genc-murat/crystalstream/internal/commands"
	"github.com/genc-murat/crystalstream/internal/core/models"
)

// Decoder turns a raw reply into the typed record for one command.
type Decoder func(v models.Value) (interface{}, error)

func wrap[T any](fn func(models.Value) (T, error)) Decoder {
	return func(v models.Value) (interface{}, error) {
		return fn(v)
	}
}

var (
	statusDecoder  = wrap(DecodeStatus)
	integerDecoder = wrap(DecodeInteger)
	rawDecoder     = Decoder(func(v models.Value) (interface{}, error) { return v, nil })
)

// DecodeStatus reads a status reply such as OK or PONG.
func DecodeStatus(v models.Value) (string, error) {
	return decoder{reply: "status"}.bulk(v, "$")
}

// DecodeInteger reads a count reply (XACK, XDEL, XLEN, XTRIM, ...).
func DecodeInteger(v models.Value) (int64, error) {
	return decoder{reply: "integer"}.integer(v, "$")
}

// DecodeID reads the id XADD returns; empty when NOMKSTREAM skipped the add.
func DecodeID(v models.Value) (string, error) {
	return decoder{reply: "XADD"}.optBulk(v, "$")
}

var byName = map[string]Decoder{
	"PING":       statusDecoder,
	"XADD":       wrap(DecodeID),
	"XACK":       integerDecoder,
	"XDEL":       integerDecoder,
	"XLEN":       integerDecoder,
	"XTRIM":      integerDecoder,
	"XREAD":      wrap(DecodeRead),
	"XREADGROUP": wrap(DecodeRead),
	"XRANGE":     wrap(DecodeRange),
	"XREVRANGE":  wrap(DecodeRange),
	"XCLAIM":     wrap(DecodeClaim),
	"XAUTOCLAIM": wrap(DecodeAutoClaim),
}

// ForCommand picks the decoder for cmd's reply. Commands without a typed
// reply get a decoder that returns the raw Value.
func ForCommand(cmd commands.Command) Decoder {
	name := strings.ToUpper(cmd.Name)
	switch name {
	case "XPENDING":
		// the extended form carries start, end and count after key and group
		if len(cmd.Args) > 2 {
			return wrap(DecodePendingDetail)
		}
		return wrap(DecodePendingSummary)
	case "XINFO":
		switch cmd.Subcommand() {
		case "STREAM":
			return wrap(DecodeStreamInfo)
		case "GROUPS":
			return wrap(DecodeGroups)
		case "CONSUMERS":
			return wrap(DecodeConsumers)
		}
		return rawDecoder
	case "XGROUP":
		switch cmd.Subcommand() {
		case "CREATE", "SETID":
			return statusDecoder
		case "DESTROY", "DELCONSUMER":
			return integerDecoder
		}
		return rawDecoder
	}
	if dec, ok := byName[name]; ok {
		return dec
	}
	return rawDecoder
}
