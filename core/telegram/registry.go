package telegram

import (
	"context"
	"log/slog"
	"sort"

	tele "gopkg.in/telebot.v4"

	"kursbot/core/logger"
)

// Command represents a bot command with its handler and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	Hidden      bool
}

// Registry holds bot commands, callback handlers, and menu label handlers.
type Registry struct {
	commands  map[string]Command
	callbacks map[string]tele.HandlerFunc
	menu      map[string]tele.HandlerFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]Command),
		callbacks: make(map[string]tele.HandlerFunc),
		menu:      make(map[string]tele.HandlerFunc),
	}
}

// RegisterCommand adds a command keyed by its slash name.
func (r *Registry) RegisterCommand(name string, cmd Command) {
	if r == nil || name == "" || cmd.Handler == nil {
		logger.TG.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name))
		return
	}
	if name[0] != '/' {
		logger.TG.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name), slog.String("reason", "no_slash_prefix"))
		return
	}
	if _, exists := r.commands[name]; exists {
		logger.TG.LogAttrs(context.Background(), slog.LevelWarn, "register.command.duplicate",
			slog.String("name", name))
		return
	}
	r.commands[name] = cmd
}

// RegisterCallback adds a callback handler keyed by its unique.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) {
	if r == nil || key == "" || handler == nil {
		logger.TG.LogAttrs(context.Background(), slog.LevelWarn, "register.callback.skip",
			slog.String("key", key))
		return
	}
	if _, exists := r.callbacks[key]; exists {
		logger.TG.LogAttrs(context.Background(), slog.LevelWarn, "register.callback.duplicate",
			slog.String("key", key))
		return
	}
	r.callbacks[key] = handler
}

// RegisterMenu maps a reply-keyboard label to its handler.
func (r *Registry) RegisterMenu(label string, handler tele.HandlerFunc) {
	if r == nil || label == "" || handler == nil {
		return
	}
	r.menu[label] = handler
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]Command {
	return r.commands
}

// GetCallback returns the handler registered under key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	h, ok := r.callbacks[key]
	return h, ok
}

// GetMenu returns the handler registered for a menu label.
func (r *Registry) GetMenu(label string) (tele.HandlerFunc, bool) {
	h, ok := r.menu[label]
	return h, ok
}

// ListCommands returns tele.Command entries for the Telegram command menu,
// skipping hidden ones.
func (r *Registry) ListCommands() []tele.Command {
	var list []tele.Command
	for name, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: name, Description: cmd.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}
