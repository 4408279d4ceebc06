package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/thermocycle/internal/cycle"
	"github.com/san-kum/thermocycle/internal/diagram"
)

// ErrNoReference is returned when no reference has been captured.
var ErrNoReference = errors.New("storage: no reference captured")

const (
	referenceDir = "reference"
	metaFile     = "metadata.json"
	snapshotFile = "snapshot.json"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type ReferenceMetadata struct {
	Name       string       `json:"name"`
	Cycle      string       `json:"cycle"`
	Gas        string       `json:"gas"`
	Tau        float64      `json:"tau"`
	TMax       float64      `json:"t_max"`
	CapturedAt time.Time    `json:"captured_at"`
	Result     cycle.Result `json:"result"`
}

// Reference is the single frozen run kept for overlay.
type Reference struct {
	Metadata ReferenceMetadata
	Snapshot diagram.Snapshot
}

// NewReference captures both diagrams of e together with its result.
func NewReference(name string, e *cycle.Engine, gasName string, tsSamples int) (*Reference, error) {
	res, err := e.Result()
	if err != nil {
		return nil, err
	}
	snap, err := diagram.Capture(name, e, e.Options().Samples, tsSamples)
	if err != nil {
		return nil, err
	}
	b := e.Boundary()
	return &Reference{
		Metadata: ReferenceMetadata{
			Name:       name,
			Cycle:      e.Kind().String(),
			Gas:        gasName,
			Tau:        b.Tau(),
			TMax:       b.TMax,
			CapturedAt: snap.CapturedAt,
			Result:     res,
		},
		Snapshot: snap,
	}, nil
}

// SaveReference replaces any previous reference.
func (s *Store) SaveReference(ref *Reference) error {
	dir := filepath.Join(s.baseDir, referenceDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, metaFile), ref.Metadata); err != nil {
		return fmt.Errorf("write reference metadata: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, snapshotFile), ref.Snapshot); err != nil {
		return fmt.Errorf("write reference snapshot: %w", err)
	}
	return nil
}

func (s *Store) LoadReference() (*Reference, error) {
	dir := filepath.Join(s.baseDir, referenceDir)

	var ref Reference
	if err := readJSON(filepath.Join(dir, metaFile), &ref.Metadata); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, snapshotFile), &ref.Snapshot); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (s *Store) HasReference() bool {
	_, err := os.Stat(filepath.Join(s.baseDir, referenceDir, metaFile))
	return err == nil
}

// ClearReference removes the stored reference. Clearing an empty store is
// not an error.
func (s *Store) ClearReference() error {
	return os.RemoveAll(filepath.Join(s.baseDir, referenceDir))
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoReference
		}
		return err
	}
	return json.Unmarshal(data, v)
}
