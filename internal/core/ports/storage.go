package ports

import "github.com/genc-murat/crystalstream/internal/commands"

// Storage journals write commands so they can be replayed later.
type Storage interface {
	Write(cmd commands.Command) error
	Read(callback func(cmd commands.Command)) error
	Close() error
}
