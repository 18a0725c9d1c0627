package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
)

// sidecarVersion guards against future layout changes.
const sidecarVersion = 1

// Sidecar is the result record written next to every stego image. It
// carries the bookkeeping a later decrypt needs (original letter count,
// optionally sealed key material) plus embedding statistics.
//
// PSNR of +Inf has no JSON representation; a lossless embedding sets
// Lossless instead and omits the number.
type Sidecar struct {
	Version        int     `json:"version"`
	OriginalLength int     `json:"original_length"`
	CapacityBits   int     `json:"capacity_bits"`
	UsedBits       int     `json:"used_bits"`
	PixelsTouched  int     `json:"pixels_touched"`
	PSNR           float64 `json:"psnr_db,omitempty"`
	Lossless       bool    `json:"lossless,omitempty"`
	SealedKeys     string  `json:"sealed_keys,omitempty"`
}

// newSidecar builds the record for an artifact, sealing the key material
// when a sealer is configured.
func newSidecar(artifact *Artifact, sealer *Sealer) (*Sidecar, error) {
	sc := &Sidecar{
		Version:        sidecarVersion,
		OriginalLength: artifact.OriginalLength,
		CapacityBits:   artifact.CapacityBits,
		UsedBits:       artifact.UsedBits,
		PixelsTouched:  artifact.PixelsTouched,
	}

	if math.IsInf(artifact.PSNR, 1) {
		sc.Lossless = true
	} else {
		sc.PSNR = artifact.PSNR
	}

	if sealer != nil {
		sealed, err := sealer.Seal(artifact.Matrix, artifact.Key)
		if err != nil {
			return nil, err
		}

		sc.SealedKeys = sealed
	}

	return sc, nil
}

// marshal renders the sidecar as indented JSON with a trailing newline.
func (s *Sidecar) marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling sidecar: %w", err)
	}

	return append(data, '\n'), nil
}

// loadSidecar reads the record at path. A missing file is not an error:
// decryption degrades to no truncation and flag-supplied keys.
func loadSidecar(path string) (*Sidecar, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path derives from user-supplied input files
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading sidecar %q: %w", path, err)
	}

	var sc Sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing sidecar %q: %w", path, err)
	}

	if sc.Version != sidecarVersion {
		return nil, fmt.Errorf("sidecar %q: unsupported version %d", path, sc.Version)
	}

	return &sc, nil
}
