// Package trajectory records ensemble snapshots as a multi-frame XYZ file.
//
// A [Writer] appends one frame per Write call and must be closed by its
// owner. Files can be read back with [Read], which returns a gochem molecule
// holding every frame in its Coords slice.
package trajectory

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	chem "github.com/rmera/gochem"
	"github.com/san-kum/mdsim/internal/atoms"
)

// ErrClosed indicates a write to a closed trajectory.
var ErrClosed = errors.New("trajectory: writer closed")

type Writer struct {
	path   string
	file   *os.File
	buf    *bufio.Writer
	frames int
	closed bool
}

// Create truncates or creates path and returns a writer positioned at its
// start.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trajectory: %w", err)
	}
	return &Writer{path: path, file: f, buf: bufio.NewWriter(f)}, nil
}

func (w *Writer) Path() string { return w.path }

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Write appends the current configuration of a.
func (w *Writer) Write(a *atoms.Atoms) error {
	if w.closed {
		return ErrClosed
	}
	if err := chem.XYZWrite(w.buf, a.Coords(), a); err != nil {
		return fmt.Errorf("trajectory: frame %d: %w", w.frames, err)
	}
	w.frames++
	return nil
}

// Close flushes buffered frames and closes the file. Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return errors.Join(w.buf.Flush(), w.file.Close())
}

// Read loads every frame of an XYZ trajectory.
func Read(path string) (*chem.Molecule, error) {
	mol, err := chem.XYZFileRead(path)
	if err != nil {
		return nil, fmt.Errorf("trajectory: %w", err)
	}
	return mol, nil
}
