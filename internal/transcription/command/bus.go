package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrNoHandler means no handler was registered for a command name. This is
// a wiring error, not a runtime condition; it is never retried.
var ErrNoHandler = errors.New("no handler registered")

// ErrDuplicateHandler means two handlers claimed the same command name.
var ErrDuplicateHandler = errors.New("duplicate handler registration")

// Handler services one or more command types, named explicitly so the bus
// routes via a registry instead of type inspection.
type Handler interface {
	CommandNames() []string
	Handle(ctx context.Context, cmd Command) (any, error)
}

// Bus routes commands to their single handler. Every dispatch is logged
// start/complete/fail; handler errors are rethrown after logging, never
// swallowed.
type Bus struct {
	handlers map[string]Handler
	logger   zerolog.Logger
}

func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string]Handler),
		logger:   logger.With().Str("component", "command_bus").Logger(),
	}
}

// Register binds a handler to each command name it declares. Registration
// happens once at startup; a duplicate name is a configuration error.
func (b *Bus) Register(h Handler) error {
	for _, name := range h.CommandNames() {
		if _, exists := b.handlers[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateHandler, name)
		}
		b.handlers[name] = h
		b.logger.Debug().Str("command", name).Msg("handler registered")
	}
	return nil
}

func (b *Bus) Dispatch(ctx context.Context, cmd Command) (any, error) {
	name := cmd.CommandName()
	log := b.logger.With().
		Str("command", name).
		Str("command_id", cmd.CommandID().String()).
		Logger()

	if err := cmd.Validate(); err != nil {
		log.Error().Err(err).Msg("command rejected")
		return nil, err
	}

	log.Info().Fields(cmd.ToMap()).Msg("command started")

	h, ok := b.handlers[name]
	if !ok {
		err := fmt.Errorf("%w for command: %s", ErrNoHandler, name)
		log.Error().Err(err).Msg("command unrouted")
		return nil, err
	}

	result, err := h.Handle(ctx, cmd)
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		return nil, err
	}

	log.Info().Msg("command completed")
	return result, nil
}

func (b *Bus) HasHandler(name string) bool {
	_, ok := b.handlers[name]
	return ok
}

func (b *Bus) RegisteredCommands() []string {
	names := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		names = append(names, name)
	}
	return names
}
