// Package session holds the working images of an interactive or scripted
// run along with a bounded history of applied operators.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"imagelab/internal/codec"
	"imagelab/internal/engine"
	"imagelab/internal/histogram"
	"imagelab/internal/logger"
	"imagelab/internal/quality"
	"imagelab/internal/raster"
)

const component = "Session"

// DefaultHistorySize bounds the number of kept history entries.
const DefaultHistorySize = 10

// Entry records one applied operator.
type Entry struct {
	Operator  engine.Operator
	Config    engine.Config
	Result    *engine.Result
	Duration  time.Duration
	AppliedAt time.Time
	Replaced  bool // the output became the next original
}

// Histograms holds the display histograms of both buffers. Processed is
// nil until an operator has run.
type Histograms struct {
	Original  *histogram.Histogram
	Processed *histogram.Histogram
}

// Options tune a session.
type Options struct {
	// ReplaceOriginal promotes each processed buffer to be the input of the
	// next operator.
	ReplaceOriginal bool
	HistorySize     int
}

// Session is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	engine    *engine.Engine
	codec     *codec.Codec
	logger    logger.Logger
	opts      Options
	source    *codec.Image
	loaded    *raster.Buffer
	original  *raster.Buffer
	processed *raster.Buffer
	history   []Entry
}

// New returns an empty session. Nil collaborators are created with
// defaults sharing log.
func New(e *engine.Engine, c *codec.Codec, log logger.Logger, opts Options) *Session {
	if log == nil {
		log = logger.Nop()
	}
	if e == nil {
		e = engine.New(log, nil)
	}
	if c == nil {
		c = codec.New(log, e.Timing())
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = DefaultHistorySize
	}
	return &Session{engine: e, codec: c, logger: log, opts: opts}
}

// Load decodes path and makes it the original. Any processed buffer and the
// history are discarded.
func (s *Session) Load(path string) error {
	img, err := s.codec.Open(path)
	if err != nil {
		return err
	}

	s.install(img, img.Buffer)
	s.logger.Info(component, "image loaded", map[string]interface{}{
		"path":   path,
		"format": img.Format,
	})
	return nil
}

// install makes buf the original, discarding any processed state. src is
// the decoded file it came from, if any.
func (s *Session) install(src *codec.Image, buf *raster.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = src
	s.loaded = buf
	s.original = buf
	s.processed = nil
	s.history = nil
}

// Original returns the current input buffer.
func (s *Session) Original() *raster.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.original
}

// Processed returns the latest output, or nil.
func (s *Session) Processed() *raster.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processed
}

// Format is the format of the loaded file, empty for in-memory originals.
func (s *Session) Format() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.source == nil {
		return ""
	}
	return s.source.Format
}

// Apply runs op on the original.
func (s *Session) Apply(op engine.Operator, cfg engine.Config) (*engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.original == nil {
		return nil, fmt.Errorf("no image loaded")
	}

	start := time.Now()
	res, err := s.engine.Apply(s.original, op, cfg)
	if err != nil {
		return nil, err
	}
	s.commit(op, cfg, res, time.Since(start))
	return res, nil
}

// commit makes res the processed buffer and records it.
func (s *Session) commit(op engine.Operator, cfg engine.Config, res *engine.Result, elapsed time.Duration) {
	s.processed = res.Buffer
	if s.opts.ReplaceOriginal {
		s.original = res.Buffer
	}
	s.record(Entry{
		Operator:  op,
		Config:    cfg,
		Result:    res,
		Duration:  elapsed,
		AppliedAt: time.Now().Add(-elapsed),
		Replaced:  s.opts.ReplaceOriginal,
	})
}

func (s *Session) record(e Entry) {
	s.history = append(s.history, e)
	if over := len(s.history) - s.opts.HistorySize; over > 0 {
		s.history = s.history[over:]
	}
}

// RunChain applies every step of chain in order. Each step reads the
// previous step's output whatever the replace setting; with ReplaceOriginal
// off, the original is left as it was.
func (s *Session) RunChain(ctx context.Context, chain *engine.Chain) ([]*engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.original == nil {
		return nil, fmt.Errorf("no image loaded")
	}

	results, err := chain.Execute(ctx, s.engine, s.original,
		func(_ int, step engine.Step, res *engine.Result, elapsed time.Duration) {
			s.commit(step.Operator, step.Config, res, elapsed)
		})
	if err != nil {
		return results, err
	}

	s.logger.Info(component, "chain completed", map[string]interface{}{
		"steps": chain.GetStepNames(),
	})
	return results, nil
}

// History returns a copy of the recorded entries, oldest first.
func (s *Session) History() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.history))
	copy(out, s.history)
	return out
}

// Histograms computes the average-gray display histograms.
func (s *Session) Histograms() Histograms {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var h Histograms
	if s.original != nil {
		orig := histogram.AverageGray(s.original)
		h.Original = &orig
	}
	if s.processed != nil {
		proc := histogram.AverageGray(s.processed)
		h.Processed = &proc
	}
	return h
}

// PSNR compares the processed buffer against the image as it was loaded.
func (s *Session) PSNR() (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.processed == nil {
		return 0, fmt.Errorf("no processed image")
	}
	return quality.PSNR(s.loaded, s.processed)
}

// Save encodes the processed buffer, or the original when nothing has
// been processed yet.
func (s *Session) Save(path string) error {
	s.mu.RLock()
	buf := s.processed
	if buf == nil {
		buf = s.original
	}
	s.mu.RUnlock()

	if buf == nil {
		return fmt.Errorf("no image to save")
	}
	return s.codec.Save(path, buf)
}
