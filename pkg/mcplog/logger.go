// Package mcplog writes one JSONL line per MCP tool call.
package mcplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// Entry is one logged tool call.
type Entry struct {
	Ts       string         `json:"ts"`
	Tool     string         `json:"tool"`
	Params   map[string]any `json:"params"`
	Revision string         `json:"revision,omitempty"` // catalog revision that served the call
	// DurationMs is wall time spent in the handler.
	DurationMs    int64 `json:"duration_ms"`
	ResponseBytes int   `json:"response_bytes"`
	TokensEst     int   `json:"tokens_est"`
	// ToolError is set when the handler returned an error result to the
	// client, as opposed to a transport failure recorded in Error.
	ToolError bool    `json:"tool_error,omitempty"`
	Error     *string `json:"error"`
}

// Logger appends entries to a file. It is safe for concurrent use, and a nil
// *Logger discards everything.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewLogger opens path for appending, creating parent directories.
// An empty path returns nil, nil.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends one entry.
func (l *Logger) Write(entry Entry) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// maxLoggedString is the longest string argument written verbatim.
const maxLoggedString = 64

// SanitizeParams copies args for logging. Page sources and other long
// strings are replaced by a "<key>_len" entry holding their length.
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > maxLoggedString {
			out[k+"_len"] = len(s)
			continue
		}
		out[k] = v
	}
	return out
}

// ResponseBytes is the JSON size of the result content, or 0.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// EstimateTokens approximates token count at four bytes per token.
func EstimateTokens(bytes int) int {
	return bytes / 4
}

// Now is the clock used for timestamps; tests replace it.
var Now = time.Now
