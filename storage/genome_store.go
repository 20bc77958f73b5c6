package storage

import (
	"context"
	"log/slog"

	"github.com/pthm-cable/seekers/neural"
)

// DefaultKey is the key the best genome is stored under.
const DefaultKey = "seekers_save"

// GenomeStore saves and restores the best genome through a KV backend.
type GenomeStore struct {
	kv     KV
	key    string
	logger *slog.Logger
}

// NewGenomeStore wraps an initialized KV. An empty key uses DefaultKey.
func NewGenomeStore(kv KV, key string, logger *slog.Logger) *GenomeStore {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GenomeStore{kv: kv, key: key, logger: logger}
}

// Save overwrites the stored checkpoint.
func (s *GenomeStore) Save(ctx context.Context, brain *neural.Network, generation int) error {
	payload, err := EncodeCheckpoint(NewCheckpoint(brain, generation))
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, s.key, payload)
}

// Load returns the stored genome and its generation. Missing, unreadable,
// or corrupt records are all reported as absent; failures are logged.
func (s *GenomeStore) Load(ctx context.Context) (*neural.Network, int, bool) {
	payload, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("checkpoint_load_failed", "key", s.key, "error", err)
		return nil, 0, false
	}
	if !ok {
		return nil, 0, false
	}

	c, err := DecodeCheckpoint(payload)
	if err != nil {
		s.logger.Warn("checkpoint_load_failed", "key", s.key, "error", err)
		return nil, 0, false
	}

	brain, err := neural.Deserialize(c.Brain)
	if err != nil {
		s.logger.Warn("checkpoint_load_failed", "key", s.key, "error", err)
		return nil, 0, false
	}
	return brain, c.Generation, true
}

// Clear removes the stored checkpoint.
func (s *GenomeStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, s.key)
}
