package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/gogen/pkg/key"

	"github.com/idelchi/gsteg/internal/config"
	"github.com/idelchi/gsteg/internal/fileutil"
	"github.com/idelchi/gsteg/internal/hill"
	"github.com/idelchi/gsteg/internal/sdes"
	"github.com/idelchi/gsteg/internal/stego"
)

// Result represents the outcome of processing a single file.
type Result struct {
	// Input file path
	Input string

	// Output file path
	Output string

	// Output file size in bytes
	OutputSize int64

	// Any error that occurred during processing
	Error error
}

// Processor runs the encrypt or decrypt pipeline over many message files
// concurrently. The carrier image is decoded once and never mutated; every
// embed works on its own clone.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// matrix is the parsed Hill key matrix; zero when keys come from sealed sidecars
	matrix hill.Matrix

	// key10 is the validated 10-bit S-DES key, empty when deferred to sidecars
	key10 string

	// carrier holds the decoded carrier pixels (encrypt only)
	carrier *stego.PixelBuffer

	// sealer seals/unseals sidecar key material, nil without a seal key
	sealer *Sealer

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// NewProcessor validates the key material eagerly and, for encryption,
// decodes the carrier image.
func NewProcessor(cfg *config.Config) (*Processor, error) {
	processor := &Processor{
		cfg:     cfg,
		results: make(chan Result, len(cfg.Files)),
	}

	if cfg.Matrix != "" {
		matrix, err := hill.Parse(cfg.Matrix)
		if err != nil {
			return nil, err
		}

		if !matrix.Invertible() {
			return nil, hill.ErrInvalidKeyMatrix
		}

		processor.matrix = matrix
	}

	if cfg.Key != "" {
		if _, err := sdes.KeySchedule(cfg.Key); err != nil {
			return nil, err
		}

		processor.key10 = cfg.Key
	}

	if cfg.SealKey != "" {
		raw, err := key.FromHex(cfg.SealKey)
		if err != nil {
			return nil, fmt.Errorf("reading seal key: %w", err)
		}

		processor.sealer, err = NewSealer(raw)
		if err != nil {
			return nil, err
		}
	}

	if !cfg.Decrypt {
		carrier, err := loadCarrier(cfg.Carrier)
		if err != nil {
			return nil, err
		}

		processor.carrier = carrier
	}

	return processor, nil
}

// loadCarrier decodes the carrier image into a pixel buffer.
func loadCarrier(path string) (*stego.PixelBuffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening carrier: %w", err)
	}
	defer f.Close()

	buffer, err := stego.DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("decoding carrier %q: %w", path, err)
	}

	return buffer, nil
}

// CarrierCapacity decodes the image at path and returns its payload
// capacity in bits.
func CarrierCapacity(path string) (int, error) {
	buffer, err := loadCarrier(path)
	if err != nil {
		return 0, err
	}

	return buffer.Capacity(), nil
}

// ProcessFiles concurrently processes all files specified in the
// configuration. Returns the number of successfully processed files, the
// number of errors and the total output size.
func (p *Processor) ProcessFiles() (processed, errored int, totalSize int64, err error) {
	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Error != nil {
				errored++

				fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", result.Input, result.Error)
			} else {
				processed++

				totalSize += result.OutputSize

				if !p.cfg.Quiet {
					fmt.Printf("Processed %q -> %q\n", result.Input, result.Output) //nolint:forbidigo
				}
			}

			if p.cfg.Delete && result.Error == nil {
				if err := os.Remove(result.Input); err != nil {
					fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", result.Input, err)
				} else if !p.cfg.Quiet {
					fmt.Printf("Deleted %q\n", result.Input) //nolint:forbidigo
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			outPath := p.outputPath(file)

			size, err := p.processFile(file, outPath)
			if err != nil {
				p.results <- Result{Input: file, Error: err}

				return err
			}

			p.results <- Result{Input: file, Output: outPath, OutputSize: size}

			return nil
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// processFile dispatches one file through the configured direction.
func (p *Processor) processFile(filename, outPath string) (int64, error) {
	if p.cfg.Decrypt {
		return p.decryptFile(filename, outPath)
	}

	return p.encryptFile(filename, outPath)
}

const ownerReadWrite = 0o600

// encryptFile runs the forward pipeline over one message file, writing the
// stego PNG and its sidecar record atomically.
func (p *Processor) encryptFile(filename, outPath string) (int64, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return 0, fmt.Errorf("getting file info: %w", err)
	}

	message, err := os.ReadFile(filepath.Clean(filename))
	if err != nil {
		return 0, fmt.Errorf("reading message: %w", err)
	}

	artifact, err := Encrypt(string(message), p.matrix, p.key10, p.carrier)
	if err != nil {
		return 0, err
	}

	size, err := fileutil.WriteAtomic(outPath, ownerReadWrite, func(w io.Writer) error {
		return stego.EncodePNG(w, artifact.Stego)
	})
	if err != nil {
		return 0, fmt.Errorf("writing stego image: %w", err)
	}

	sidecar, err := newSidecar(artifact, p.sealer)
	if err != nil {
		return 0, err
	}

	record, err := sidecar.marshal()
	if err != nil {
		return 0, err
	}

	if _, err := fileutil.WriteAtomic(sidecarPath(outPath), ownerReadWrite, func(w io.Writer) error {
		_, err := w.Write(record)

		return err
	}); err != nil {
		return 0, fmt.Errorf("writing sidecar: %w", err)
	}

	if p.cfg.PreserveTimestamps {
		if err := fileutil.PreserveTimes(outPath, info.ModTime()); err != nil {
			return 0, err
		}
	}

	return size, nil
}

// decryptFile runs the backward pipeline over one stego image, writing the
// recovered text atomically.
func (p *Processor) decryptFile(filename, outPath string) (int64, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return 0, fmt.Errorf("getting file info: %w", err)
	}

	sidecar, err := loadSidecar(sidecarPath(filename))
	if err != nil {
		return 0, err
	}

	matrix, key10 := p.matrix, p.key10
	originalLength := 0

	if sidecar != nil {
		originalLength = sidecar.OriginalLength

		if sidecar.SealedKeys != "" && p.sealer != nil {
			matrix, key10, err = p.sealer.Unseal(sidecar.SealedKeys)
			if err != nil {
				return 0, err
			}
		}
	}

	if key10 == "" {
		return 0, fmt.Errorf("decrypt %q: no key available from flags or sealed sidecar", filename)
	}

	buffer, err := loadCarrier(filename)
	if err != nil {
		return 0, err
	}

	plain, err := DecryptBuffer(buffer, matrix, key10, originalLength)
	if err != nil {
		return 0, err
	}

	size, err := fileutil.WriteAtomic(outPath, ownerReadWrite, func(w io.Writer) error {
		_, err := io.WriteString(w, plain)

		return err
	})
	if err != nil {
		return 0, fmt.Errorf("writing plaintext: %w", err)
	}

	if p.cfg.PreserveTimestamps {
		if err := fileutil.PreserveTimes(outPath, info.ModTime()); err != nil {
			return 0, err
		}
	}

	return size, nil
}

// SidecarSuffix is appended to a stego image path to name its result record.
const SidecarSuffix = ".json"

func sidecarPath(stegoPath string) string {
	return stegoPath + SidecarSuffix
}

// outputPath generates the output file path based on the input filename and
// the configured suffixes for encryption/decryption.
func (p *Processor) outputPath(filename string) string {
	ext := p.cfg.EncryptSuffix

	if p.cfg.Decrypt {
		filename = strings.TrimSuffix(filename, p.cfg.EncryptSuffix)
		ext = p.cfg.DecryptSuffix
	}

	return filepath.Join(filepath.Dir(filename),
		filepath.Base(filename)+ext)
}
