package commands

import (
	"strings"

	"github.com/gomodule/redigo/redis"

	"github.com/genc-murat/crystalstream/internal/core/models"
	"github.com/genc-murat/crystalstream/internal/types"
)

// Command is an encoded request: a command name and its arguments in the
// exact order the store's grammar expects.
type Command struct {
	Name string
	Args redis.Args
}

func New(name string, args ...interface{}) Command {
	return Command{Name: name, Args: redis.Args{}.Add(args...)}
}

// FromTokens rebuilds a command from its rendered tokens.
func FromTokens(tokens []string) Command {
	if len(tokens) == 0 {
		return Command{}
	}
	args := make(redis.Args, 0, len(tokens)-1)
	for _, t := range tokens[1:] {
		args = append(args, t)
	}
	return Command{Name: strings.ToUpper(tokens[0]), Args: args}
}

// Tokens renders the command name followed by every argument as strings.
func (c Command) Tokens() []string {
	tokens := make([]string, 0, len(c.Args)+1)
	tokens = append(tokens, c.Name)
	for _, a := range c.Args {
		tokens = append(tokens, models.FormatArg(a))
	}
	return tokens
}

// Subcommand returns the upper-cased first argument of a container command
// (XGROUP, XINFO), or "" for any other command.
func (c Command) Subcommand() string {
	switch strings.ToUpper(c.Name) {
	case "XGROUP", "XINFO":
	default:
		return ""
	}
	if len(c.Args) == 0 {
		return ""
	}
	return strings.ToUpper(models.FormatArg(c.Args[0]))
}

// IsWrite reports whether the command changes stream or group state.
func (c Command) IsWrite() bool {
	return types.GetCommandType(strings.ToUpper(c.Name)) == types.WriteCommand
}

func (c Command) String() string {
	return strings.Join(c.Tokens(), " ")
}
