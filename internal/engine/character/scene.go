package character

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/skelanim/internal/logger"
)

// ErrUnknownCharacter is returned when a character ID is not in the scene.
var ErrUnknownCharacter = errors.New("unknown character")

// Recorder receives per-character frame statistics.
type Recorder interface {
	ObserveFrame(character string, layers int, elapsed time.Duration)
}

// Scene owns a set of characters and updates them once per frame.
type Scene struct {
	characters []*Character
	byID       map[uuid.UUID]*Character
	failing    map[uuid.UUID]string
	recorder   Recorder
	log        *zap.Logger
}

// NewScene creates an empty scene. recorder may be nil.
func NewScene(recorder Recorder) *Scene {
	return &Scene{
		byID:     make(map[uuid.UUID]*Character),
		failing:  make(map[uuid.UUID]string),
		recorder: recorder,
		log:      logger.Named("scene"),
	}
}

// Add puts c into the scene.
func (s *Scene) Add(c *Character) error {
	if _, dup := s.byID[c.ID()]; dup {
		return fmt.Errorf("character %s already in scene", c.ID())
	}
	s.characters = append(s.characters, c)
	s.byID[c.ID()] = c
	return nil
}

// Remove takes the character with id out of the scene.
func (s *Scene) Remove(id uuid.UUID) error {
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCharacter, id)
	}
	delete(s.byID, id)
	delete(s.failing, id)
	for i, c := range s.characters {
		if c.ID() == id {
			s.characters = append(s.characters[:i], s.characters[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the character with id.
func (s *Scene) Get(id uuid.UUID) (*Character, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Characters returns the characters in insertion order.
func (s *Scene) Characters() []*Character {
	return s.characters
}

// Update advances every character by dt and returns how many failed this
// frame. A failing character still gets its pose from the layers that
// sampled; a panic inside one character's update is contained to it. Each
// distinct failure is logged once.
func (s *Scene) Update(dt float32) int {
	failed := 0
	for _, c := range s.characters {
		start := time.Now()
		err := s.updateOne(c, dt)
		if s.recorder != nil {
			s.recorder.ObserveFrame(c.Name(), len(c.Samples()), time.Since(start))
		}

		if err == nil {
			if _, was := s.failing[c.ID()]; was {
				s.log.Info("character recovered", zap.String("character", c.Name()))
				delete(s.failing, c.ID())
			}
			continue
		}

		failed++
		msg := err.Error()
		if s.failing[c.ID()] != msg {
			s.failing[c.ID()] = msg
			s.log.Error("character update failed",
				zap.String("character", c.Name()),
				zap.String("id", c.ID().String()),
				zap.Error(err),
			)
		}
	}
	return failed
}

func (s *Scene) updateOne(c *Character, dt float32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.Update(dt)
}
