package clip

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateClip is returned when a clip name is registered twice.
var ErrDuplicateClip = errors.New("duplicate clip")

// Store resolves clips by name. It is only consulted while controllers are
// being built.
type Store interface {
	Find(name string) *Clip
}

// Database is an in-memory clip store keyed by name.
type Database struct {
	clips  []*Clip
	byName map[string]int
}

// NewDatabase creates an empty clip database.
func NewDatabase() *Database {
	return &Database{byName: make(map[string]int)}
}

// Add registers a clip. Names must be unique.
func (db *Database) Add(c *Clip) error {
	if c == nil {
		return errors.New("nil clip")
	}
	if _, ok := db.byName[c.name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateClip, c.name)
	}
	db.byName[c.name] = len(db.clips)
	db.clips = append(db.clips, c)
	return nil
}

// Find returns the named clip, or nil if it is not registered.
func (db *Database) Find(name string) *Clip {
	idx, ok := db.byName[name]
	if !ok {
		return nil
	}
	return db.clips[idx]
}

// Names returns the registered clip names in sorted order.
func (db *Database) Names() []string {
	names := make([]string, 0, len(db.clips))
	for _, c := range db.clips {
		names = append(names, c.name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered clips.
func (db *Database) Len() int {
	return len(db.clips)
}
