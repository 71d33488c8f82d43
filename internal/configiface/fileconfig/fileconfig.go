// Package fileconfig is a YAML-file-backed reference implementation of
// configiface.Config. It reloads on external file changes via fsnotify
// and persists its own writes back to disk.
package fileconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"reactor/internal/configiface"
	"reactor/internal/value"
	"reactor/pkg/logging"
)

// Config is a file-backed configiface.Config. The zero value is not
// usable; construct with Open.
type Config struct {
	path    string
	data    map[string]any
	parsers map[string]configiface.ParserFunc

	changed *value.Observable[configiface.ChangeEvent]

	watcher *fsnotify.Watcher
}

// Open reads path and starts an fsnotify watch for external edits. A
// missing file is treated as an empty document and is first written by
// Set; in that case the watch cannot be added and Open only logs a
// warning, so external edits are not picked up.
func Open(path string) (*Config, error) {
	c := &Config{
		path:    path,
		data:    make(map[string]any),
		parsers: make(map[string]configiface.ParserFunc),
		changed: value.New[configiface.ChangeEvent]("fileconfig"),
	}

	if err := c.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fileconfig: starting watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		logging.Warn("config", "fileconfig: could not watch %s: %v", path, err)
	}
	c.watcher = watcher
	go c.watchLoop()

	return c, nil
}

func (c *Config) load() error {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}
	doc := make(map[string]any)
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("fileconfig: parsing %s: %w", c.path, err)
	}
	c.data = doc
	return nil
}

func (c *Config) watchLoop() {
	for {
		select {
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := c.load(); err != nil {
				logging.Warn("config", "fileconfig: reload failed: %v", err)
				continue
			}
			c.changed.Set(configiface.ChangeEvent{TriggeredBy: "file-watch"})
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("config", "fileconfig: watch error: %v", err)
		}
	}
}

// Close stops the underlying fsnotify watch.
func (c *Config) Close() error {
	return c.watcher.Close()
}

func splitPath(path any) []string {
	switch p := path.(type) {
	case []string:
		return p
	case string:
		return strings.Split(p, ".")
	default:
		return nil
	}
}

var _ configiface.Config = (*Config)(nil)

// Get implements configiface.Config.
func (c *Config) Get(path any) (any, bool) {
	parts := splitPath(path)
	node := any(c.data)
	for _, part := range parts {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// GetDefined implements configiface.Config.
func (c *Config) GetDefined(path any) (any, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, fmt.Errorf("fileconfig: %v: not set", path)
	}
	return v, nil
}

// Set implements configiface.Config.
func (c *Config) Set(path any, v any, triggeredBy string) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return fmt.Errorf("fileconfig: empty path")
	}

	if current, ok := c.Get(path); ok && value.Equals(current, v) {
		return nil
	}

	if parser, ok := c.parsers[parts[0]]; ok {
		parsed, err := parser(v)
		if err != nil {
			return fmt.Errorf("fileconfig: %s: %w", parts[0], err)
		}
		v = parsed
	}

	node := c.data
	for _, part := range parts[:len(parts)-1] {
		next, ok := node[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			node[part] = next
		}
		node = next
	}
	node[parts[len(parts)-1]] = v

	if err := c.persist(); err != nil {
		return err
	}
	c.changed.Set(configiface.ChangeEvent{ObjectPath: parts, TriggeredBy: triggeredBy})
	return nil
}

func (c *Config) persist() error {
	raw, err := yaml.Marshal(c.data)
	if err != nil {
		return fmt.Errorf("fileconfig: marshalling: %w", err)
	}
	return os.WriteFile(c.path, raw, 0o644)
}

// SetParser implements configiface.Config.
func (c *Config) SetParser(topLevelKey string, fn configiface.ParserFunc) {
	if fn == nil {
		delete(c.parsers, topLevelKey)
		return
	}
	c.parsers[topLevelKey] = fn
}

// Subscribe implements configiface.Config.
func (c *Config) Subscribe(cb func(configiface.ChangeEvent)) func() {
	return c.changed.Subscribe(func(ev configiface.ChangeEvent, _ value.Unsubscribe) {
		cb(ev)
	}, false)
}
