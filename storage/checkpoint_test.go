package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/pthm-cable/seekers/neural"
)

func testBrain(t *testing.T) *neural.Network {
	t.Helper()
	nn, err := neural.NewRandomNetwork([]int{4, 3, 2}, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	return nn
}

func TestCheckpointRoundTrip(t *testing.T) {
	brain := testBrain(t)

	data, err := EncodeCheckpoint(NewCheckpoint(brain, 12))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	c, err := DecodeCheckpoint(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Generation != 12 || c.Version != CurrentVersion {
		t.Errorf("got generation %d version %d", c.Generation, c.Version)
	}

	restored, err := neural.Deserialize(c.Brain)
	if err != nil {
		t.Fatal(err)
	}
	if !restored.Equal(brain) {
		t.Error("restored brain differs from original")
	}
}

func TestDecodeCheckpointRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{`},
		{"empty object", `{}`},
		{"explicit zero version", `{"version":0,"generation":1,"brain":{"topology":[1,1],"levels":[{"weights":[0],"biases":[0]}]}}`},
		{"wrong version", `{"version":2,"generation":1,"brain":{"topology":[1,1],"levels":[{"weights":[0],"biases":[0]}]}}`},
		{"unknown field", `{"version":1,"generation":1,"extra":true,"brain":{"topology":[1,1],"levels":[{"weights":[0],"biases":[0]}]}}`},
		{"missing brain", `{"version":1,"generation":3}`},
		{"short weights", `{"version":1,"generation":1,"brain":{"topology":[2,1],"levels":[{"weights":[0],"biases":[0]}]}}`},
		{"zero generation", `{"version":1,"generation":0,"brain":{"topology":[1,1],"levels":[{"weights":[0],"biases":[0]}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCheckpoint([]byte(tt.payload))
			if !errors.Is(err, ErrCorruptCheckpoint) {
				t.Errorf("expected ErrCorruptCheckpoint, got %v", err)
			}
		})
	}
}

func TestDecodeCheckpointWithoutVersion(t *testing.T) {
	payload := `{"generation":4,"brain":{"topology":[2,1],"levels":[{"weights":[0.5,-0.25],"biases":[0.1]}]}}`

	c, err := DecodeCheckpoint([]byte(payload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Version != 1 || c.Generation != 4 {
		t.Errorf("got version %d generation %d, want 1 and 4", c.Version, c.Generation)
	}

	nn, err := neural.Deserialize(c.Brain)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	out, err := nn.Infer([]float64{1, 0})
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("expected 1 output, got %d", len(out))
	}
}

func TestDecodeCheckpointVersionMismatch(t *testing.T) {
	payload := `{"version":2,"generation":1,"brain":{"topology":[1,1],"levels":[{"weights":[0],"biases":[0]}]}}`

	_, err := DecodeCheckpoint([]byte(payload))
	if !errors.Is(err, ErrVersionMismatch) {
		t.Errorf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestGenomeStoreSaveLoadClear(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	if err := kv.Init(ctx); err != nil {
		t.Fatal(err)
	}
	store := NewGenomeStore(kv, "", nil)

	if _, _, ok := store.Load(ctx); ok {
		t.Fatal("empty store should load nothing")
	}

	brain := testBrain(t)
	if err := store.Save(ctx, brain, 5); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, gen, ok := store.Load(ctx)
	if !ok {
		t.Fatal("expected a stored genome")
	}
	if gen != 5 || !loaded.Equal(brain) {
		t.Errorf("loaded generation %d, equal=%v", gen, loaded.Equal(brain))
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, _, ok := store.Load(ctx); ok {
		t.Error("cleared store should load nothing")
	}
}

func TestGenomeStoreCorruptIsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	if err := kv.Init(ctx); err != nil {
		t.Fatal(err)
	}
	if err := kv.Put(ctx, DefaultKey, []byte(`{"version":1,"generation":2,"brain":{"topology":[3]}}`)); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	store := NewGenomeStore(kv, DefaultKey, slog.New(slog.NewJSONHandler(&logs, nil)))

	if _, _, ok := store.Load(ctx); ok {
		t.Error("corrupt record should be reported as absent")
	}
	if !strings.Contains(logs.String(), "checkpoint_load_failed") {
		t.Errorf("expected a warning, got %q", logs.String())
	}
}
