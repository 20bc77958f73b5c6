package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pthm-cable/seekers/neural"
)

// CurrentVersion is the checkpoint format written by this build.
const CurrentVersion = 1

var (
	// ErrCorruptCheckpoint wraps every decode failure.
	ErrCorruptCheckpoint = errors.New("corrupt checkpoint")
	// ErrVersionMismatch marks a checkpoint written in a format this build cannot read.
	ErrVersionMismatch = errors.New("checkpoint version mismatch")
)

// Checkpoint is the persisted best genome and the generation it belongs to.
type Checkpoint struct {
	Version    int              `json:"version"`
	Generation int              `json:"generation"`
	Brain      neural.BrainData `json:"brain"`
}

// NewCheckpoint captures a network at the current format version.
func NewCheckpoint(brain *neural.Network, generation int) Checkpoint {
	return Checkpoint{
		Version:    CurrentVersion,
		Generation: generation,
		Brain:      brain.Serialize(),
	}
}

// EncodeCheckpoint serializes a checkpoint as JSON.
func EncodeCheckpoint(c Checkpoint) ([]byte, error) {
	return json.Marshal(c)
}

// storedCheckpoint distinguishes an absent version from an explicit one.
type storedCheckpoint struct {
	Version    *int             `json:"version"`
	Generation int              `json:"generation"`
	Brain      neural.BrainData `json:"brain"`
}

// DecodeCheckpoint parses and validates a checkpoint. A record without a
// version is read as version 1. Unknown fields, other versions, and
// mis-shaped brains are rejected.
func DecodeCheckpoint(data []byte) (Checkpoint, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var stored storedCheckpoint
	if err := dec.Decode(&stored); err != nil {
		return Checkpoint{}, fmt.Errorf("%w: %v", ErrCorruptCheckpoint, err)
	}
	c := Checkpoint{Version: 1, Generation: stored.Generation, Brain: stored.Brain}
	if stored.Version != nil {
		c.Version = *stored.Version
	}
	if c.Version != CurrentVersion {
		return Checkpoint{}, fmt.Errorf("%w: %w: got %d, want %d", ErrCorruptCheckpoint, ErrVersionMismatch, c.Version, CurrentVersion)
	}
	if c.Generation < 1 {
		return Checkpoint{}, fmt.Errorf("%w: generation %d", ErrCorruptCheckpoint, c.Generation)
	}
	if err := c.Brain.Validate(); err != nil {
		return Checkpoint{}, fmt.Errorf("%w: %w", ErrCorruptCheckpoint, err)
	}
	return c, nil
}
