package command

import (
	"time"

	"github.com/google/uuid"
)

// Command is a typed, self-validating request to change state. Commands
// are routed to exactly one handler and are never cached.
type Command interface {
	CommandID() uuid.UUID
	CommandName() string
	IssuedAt() time.Time
	Validate() error
	// ToMap flattens the command for structured logging. It must not leak
	// transcript contents.
	ToMap() map[string]any
}

type baseCommand struct {
	id       uuid.UUID
	issuedAt time.Time
}

func newBaseCommand() baseCommand {
	return baseCommand{
		id:       uuid.New(),
		issuedAt: time.Now().UTC(),
	}
}

func (c baseCommand) CommandID() uuid.UUID { return c.id }
func (c baseCommand) IssuedAt() time.Time  { return c.issuedAt }
