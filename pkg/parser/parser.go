// Package parser manages pooled tree-sitter parsers for page sources.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/uicatalog/pkg/util"
)

// ErrClosed is returned by Parse after Close.
var ErrClosed = errors.New("parser: manager closed")

// Manager hands out tree-sitter parsers per dialect.
//
// Pools are created lazily on first use. Callers own the returned trees and
// must Close them; the Manager itself must be closed to free the parsers.
//
//	m := parser.NewManager(logger)
//	defer m.Close()
//
//	tree, err := m.Parse(src, parser.DialectTSX)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type Manager struct {
	mu     sync.RWMutex
	pools  map[Dialect]*pool
	closed bool
	size   int
	logger *slog.Logger
}

// NewManager creates a Manager sized by util.GetOptimalPoolSize.
func NewManager(logger *slog.Logger) *Manager {
	return NewManagerWithSize(0, logger)
}

// NewManagerWithSize creates a Manager with at most size parsers per
// dialect; size <= 0 selects the CPU-based default.
func NewManagerWithSize(size int, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		pools:  make(map[Dialect]*pool),
		size:   util.GetOptimalPoolSizeWithOverride(size),
		logger: logger,
	}
}

// Parse parses source with the grammar for dialect. Trees with syntax errors
// are still returned; tree-sitter recovers and partial trees are useful.
func (m *Manager) Parse(source []byte, dialect Dialect) (*ts.Tree, error) {
	p, err := m.pool(dialect)
	if err != nil {
		return nil, err
	}

	tp, err := p.acquire()
	if err != nil {
		return nil, err
	}
	tree := tp.Parse(source, nil)
	p.release(tp)

	if tree == nil {
		return nil, fmt.Errorf("parser: %s parse returned nil tree", dialect)
	}
	if tree.RootNode().HasError() {
		m.logger.Debug("parse tree contains errors", "dialect", dialect.String())
	}
	return tree, nil
}

// ParseFile detects the dialect from filePath and parses source.
func (m *Manager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	return m.Parse(source, DetectDialect(filePath))
}

// Close releases every pooled parser. Further Parse calls fail with ErrClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for d, p := range m.pools {
		n := p.close()
		m.logger.Debug("closed parser pool", "dialect", d.String(), "parsers_closed", n)
	}
	m.pools = nil
	return nil
}

func (m *Manager) pool(dialect Dialect) (*pool, error) {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return nil, ErrClosed
	}
	p, ok := m.pools[dialect]
	m.mu.RUnlock()
	if ok {
		return p, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	if p, ok := m.pools[dialect]; ok {
		return p, nil
	}

	lang, err := grammar(dialect)
	if err != nil {
		return nil, err
	}
	p = newPool(lang, m.size)
	m.pools[dialect] = p
	m.logger.Debug("created parser pool", "dialect", dialect.String(), "max_size", m.size)
	return p, nil
}

func grammar(dialect Dialect) (unsafe.Pointer, error) {
	switch dialect {
	case DialectTSX:
		return ts_typescript.LanguageTSX(), nil
	case DialectTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case DialectJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("parser: unsupported dialect %s", dialect)
	}
}

// pool is a bounded set of parsers for one grammar. Parsers are created on
// demand up to max; beyond that acquire blocks until one is released.
type pool struct {
	lang    unsafe.Pointer
	idle    chan *ts.Parser
	done    chan struct{}
	mu      sync.Mutex
	created int
	max     int
	closed  bool
}

func newPool(lang unsafe.Pointer, max int) *pool {
	return &pool{
		lang: lang,
		idle: make(chan *ts.Parser, max),
		done: make(chan struct{}),
		max:  max,
	}
}

// acquire returns an idle parser, creates one while under the limit, or
// waits for a release. It fails with ErrClosed once the pool is closed,
// including for callers already waiting.
func (p *pool) acquire() (*ts.Parser, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	select {
	case tp := <-p.idle:
		p.mu.Unlock()
		return tp, nil
	default:
	}

	if p.created < p.max {
		p.created++
		p.mu.Unlock()

		tp := ts.NewParser()
		if err := tp.SetLanguage(ts.NewLanguage(p.lang)); err != nil {
			tp.Close()
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, fmt.Errorf("parser: set language: %w", err)
		}
		return tp, nil
	}
	p.mu.Unlock()

	select {
	case tp := <-p.idle:
		return tp, nil
	case <-p.done:
		return nil, ErrClosed
	}
}

func (p *pool) release(tp *ts.Parser) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		tp.Close()
		return
	}

	select {
	case p.idle <- tp:
	default:
		tp.Close()
	}
}

// close drains idle parsers and returns how many were closed. Parsers
// checked out at this point are closed when released. Calling close again
// returns 0.
func (p *pool) close() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0
	}
	p.closed = true
	close(p.done)

	n := 0
	for {
		select {
		case tp := <-p.idle:
			tp.Close()
			n++
		default:
			return n
		}
	}
}
