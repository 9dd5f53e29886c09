package logger

import (
	"sync"
)

// registry is the global named-logger registry.
var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
	derived map[string]*Logger
}

// reset drops the loggers derived from a previous global logger.
func (r *loggerRegistry) reset() {
	r.mu.Lock()
	r.derived = nil
	r.mu.Unlock()
}

// Register stores a named logger in the registry.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Unregister removes a named logger from the registry.
func Unregister(name string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.loggers, name)
}

// Get retrieves a named logger. If the name is not registered it returns the
// global logger tagged with the requested component name.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	if !ok {
		l, ok = registry.derived[name]
	}
	registry.mu.RUnlock()
	if ok {
		return l
	}

	l = GetGlobalLogger().WithComponent(name)
	registry.mu.Lock()
	if registry.derived == nil {
		registry.derived = make(map[string]*Logger)
	}
	registry.derived[name] = l
	registry.mu.Unlock()
	return l
}
