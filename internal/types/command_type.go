package types

type CommandType int

const (
	ReadCommand CommandType = iota
	WriteCommand
	AdminCommand
)

var CommandTypes = map[string]CommandType{
	// Read Commands
	"XREAD":      ReadCommand,
	"XREADGROUP": ReadCommand,
	"XRANGE":     ReadCommand,
	"XREVRANGE":  ReadCommand,
	"XLEN":       ReadCommand,
	"XPENDING":   ReadCommand,
	"XINFO":      ReadCommand,

	// Write Commands
	"XADD":       WriteCommand,
	"XACK":       WriteCommand,
	"XCLAIM":     WriteCommand,
	"XAUTOCLAIM": WriteCommand,
	"XDEL":       WriteCommand,
	"XGROUP":     WriteCommand,
	"XTRIM":      WriteCommand,
	"XSETID":     WriteCommand,

	// Admin Commands
	"PING":   AdminCommand,
	"SELECT": AdminCommand,
	"AUTH":   AdminCommand,
}

// GetCommandType expects an upper-cased name. XREADGROUP moves entries into
// the pending list but is classed as a read. Unknown commands are reads.
func GetCommandType(cmd string) CommandType {
	if cmdType, exists := CommandTypes[cmd]; exists {
		return cmdType
	}
	return ReadCommand
}
