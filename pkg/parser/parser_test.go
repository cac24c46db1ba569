package parser

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uicatalog/pkg/util"
)

func testManager(t *testing.T, size int) *Manager {
	t.Helper()
	m := NewManagerWithSize(size, util.Discard())
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// --- Dialect tests ---

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		path string
		want Dialect
	}{
		{"", DialectTSX},
		{"app/page.tsx", DialectTSX},
		{"lib/util.ts", DialectTypeScript},
		{"lib/util.MTS", DialectTypeScript},
		{"old/page.jsx", DialectJavaScript},
		{"old/page.js", DialectJavaScript},
		{"styles.css", DialectUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDialect(tt.path))
		})
	}
}

func TestParseDialect(t *testing.T) {
	assert.Equal(t, DialectTSX, ParseDialect(""))
	assert.Equal(t, DialectTypeScript, ParseDialect("TS"))
	assert.Equal(t, DialectJavaScript, ParseDialect("jsx"))
	assert.Equal(t, DialectUnknown, ParseDialect("python"))
	assert.Equal(t, "unknown", DialectUnknown.String())
}

// --- Parse tests ---

func TestParse_TSX(t *testing.T) {
	m := testManager(t, 2)

	tree, err := m.Parse([]byte(`const x = <Button size="large">Go</Button>`), DialectTSX)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "program", root.Kind())
	assert.Contains(t, root.ToSexp(), "jsx_element")
}

func TestParse_TypeScript(t *testing.T) {
	m := testManager(t, 2)

	tree, err := m.Parse([]byte(`const x: number = 1;`), DialectTypeScript)
	require.NoError(t, err)
	defer tree.Close()
	assert.False(t, tree.RootNode().HasError())
}

func TestParse_JavaScriptJSX(t *testing.T) {
	m := testManager(t, 2)

	tree, err := m.ParseFile([]byte(`export const A = () => <Card />`), "a.jsx")
	require.NoError(t, err)
	defer tree.Close()
	assert.Contains(t, tree.RootNode().ToSexp(), "jsx_self_closing_element")
}

func TestParse_SyntaxErrorStillReturnsTree(t *testing.T) {
	m := testManager(t, 1)

	tree, err := m.Parse([]byte(`const = <Button`), DialectTSX)
	require.NoError(t, err)
	defer tree.Close()
	assert.True(t, tree.RootNode().HasError())
}

func TestParse_UnknownDialect(t *testing.T) {
	m := testManager(t, 1)

	_, err := m.Parse([]byte("x"), DialectUnknown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dialect")
}

func TestParse_AfterClose(t *testing.T) {
	m := NewManagerWithSize(1, util.Discard())
	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "Close is idempotent")

	_, err := m.Parse([]byte("x"), DialectTSX)
	assert.ErrorIs(t, err, ErrClosed)
}

// --- Concurrency ---

// More goroutines than parsers forces acquire to wait on released parsers.
func TestParse_Concurrent(t *testing.T) {
	m := testManager(t, 2)

	const n = 50
	source := []byte(`const x = <Table><TableRow /></Table>`)
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dialect := DialectTSX
			if i%2 == 1 {
				dialect = DialectJavaScript
			}
			tree, err := m.Parse(source, dialect)
			if err != nil {
				errs <- err
				return
			}
			tree.Close()
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

// --- Pool lifecycle ---

func testPool(t *testing.T, max int) *pool {
	t.Helper()
	lang, err := grammar(DialectTSX)
	require.NoError(t, err)
	p := newPool(lang, max)
	t.Cleanup(func() { p.close() })
	return p
}

func TestPool_CloseUnblocksWaitingAcquire(t *testing.T) {
	p := testPool(t, 1)

	held, err := p.acquire()
	require.NoError(t, err)

	result := make(chan error, 1)
	go func() {
		tp, err := p.acquire()
		if tp != nil {
			p.release(tp)
		}
		result <- err
	}()

	select {
	case err := <-result:
		t.Fatalf("acquire returned before close: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	assert.Equal(t, 0, p.close())

	select {
	case err := <-result:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("acquire still blocked after close")
	}

	assert.NotPanics(t, func() { p.release(held) })
}

func TestPool_AcquireAfterClose(t *testing.T) {
	p := testPool(t, 2)

	tp, err := p.acquire()
	require.NoError(t, err)
	p.release(tp)

	assert.Equal(t, 1, p.close())
	assert.Equal(t, 0, p.close(), "second close is a no-op")

	_, err = p.acquire()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestParse_CloseWhileParsing(t *testing.T) {
	m := NewManagerWithSize(1, util.Discard())
	source := []byte(`const x = <Table />`)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := m.Parse(source, DialectTSX)
			if err != nil {
				assert.ErrorIs(t, err, ErrClosed)
				return
			}
			tree.Close()
		}()
	}
	require.NoError(t, m.Close())

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Parse calls did not return after Close")
	}
}
