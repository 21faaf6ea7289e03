// Package sink holds frame consumers for the render engine.
package sink

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
)

// Sink consumes rendered frames. Write must not retain img.
type Sink interface {
	Write(img *image.RGBA) error
	io.Closer
}

// PNG writes every Nth frame into Dir as frame-000123.png, numbered by
// frame index starting at 0.
type PNG struct {
	Dir   string
	Every int

	mu      sync.Mutex
	n       uint64
	written int
	closed  bool
}

func NewPNG(dir string, every int) (*PNG, error) {
	if every < 1 {
		return nil, fmt.Errorf("png sink: every must be >= 1, got %d", every)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("png sink: %w", err)
	}
	return &PNG{Dir: dir, Every: every}, nil
}

var ErrClosed = errors.New("sink closed")

func (p *PNG) Write(img *image.RGBA) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	n := p.n
	p.n++
	if n%uint64(p.Every) != 0 {
		return nil
	}
	if err := gg.SavePNG(p.Path(n), img); err != nil {
		return fmt.Errorf("png sink: %w", err)
	}
	p.written++
	return nil
}

// Path is the file frame n is written to.
func (p *PNG) Path(n uint64) string {
	return filepath.Join(p.Dir, fmt.Sprintf("frame-%06d.png", n))
}

// Written reports how many files were written.
func (p *PNG) Written() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written
}

func (p *PNG) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}
