package renderer

import (
	"fmt"

	"github.com/Faultbox/midgard-engine/internal/engine/material"
)

// ProgramKey identifies a shader program by material kind and binding path.
type ProgramKey struct {
	Kind material.Kind
	Path Path
}

func (k ProgramKey) String() string {
	return fmt.Sprintf("%s/%s", k.Kind, k.Path)
}

// ProgramCache builds programs on first use and keeps them until Close.
// Build failures are cached too so a broken program is reported once.
type ProgramCache[P any] struct {
	build    func(ProgramKey) (P, error)
	release  func(P)
	programs map[ProgramKey]P
	failed   map[ProgramKey]error
	builds   int
}

// NewProgramCache creates a cache using build to create and release to
// destroy programs.
func NewProgramCache[P any](build func(ProgramKey) (P, error), release func(P)) *ProgramCache[P] {
	return &ProgramCache[P]{
		build:    build,
		release:  release,
		programs: make(map[ProgramKey]P),
		failed:   make(map[ProgramKey]error),
	}
}

// Get returns the program for key, building it if needed.
func (c *ProgramCache[P]) Get(key ProgramKey) (P, error) {
	if p, ok := c.programs[key]; ok {
		return p, nil
	}
	if err, ok := c.failed[key]; ok {
		var zero P
		return zero, err
	}

	c.builds++
	p, err := c.build(key)
	if err != nil {
		err = fmt.Errorf("program %s: %w", key, err)
		c.failed[key] = err
		return p, err
	}
	c.programs[key] = p
	return p, nil
}

// Len returns the number of live programs.
func (c *ProgramCache[P]) Len() int { return len(c.programs) }

// Builds returns how many build attempts were made.
func (c *ProgramCache[P]) Builds() int { return c.builds }

// Close releases every program.
func (c *ProgramCache[P]) Close() {
	for k, p := range c.programs {
		if c.release != nil {
			c.release(p)
		}
		delete(c.programs, k)
	}
	clear(c.failed)
}
