package command

import (
	"fmt"
	"strings"
	"sync"
)

// Registry maps command names to commands. Lookups are case-insensitive; anything not
// registered simply is not found.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds cmd wrapped in mws (first middleware runs first). Registering the same
// name twice is a programming error.
func (r *Registry) Register(cmd Command, mws ...Middleware) {
	name := strings.ToLower(cmd.Name())

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[name]; exists {
		panic(fmt.Sprintf("command %q registered twice", name))
	}
	r.commands[name] = ApplyMiddlewares(cmd, mws...)
	r.order = append(r.order, name)
}

// Get returns the command with the given name
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// All returns all commands in registration order
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.commands[name])
	}
	return list
}
