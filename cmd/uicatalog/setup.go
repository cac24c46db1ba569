package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

const serverName = "uicatalog"

// agent describes how to register the MCP server with one coding agent.
type agent struct {
	name string
	// binary is set for agents configured through their own CLI.
	binary string
	// marker, if set, is a directory whose presence means the agent is used here.
	marker string
	// configPath returns the JSON config file for file-based agents.
	configPath func() string
	serversKey string
	extra      map[string]string
}

// Replaceable for testing.
var (
	lookPathFunc = exec.LookPath
	statFunc     = os.Stat
	runFunc      = func(name string, args ...string) error {
		cmd := exec.Command(name, args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}
)

var agents = []agent{
	{name: "Claude Code", binary: "claude"},
	{name: "OpenAI Codex", binary: "codex"},
	{
		name: "VS Code Copilot", marker: ".vscode",
		configPath: func() string { return filepath.Join(".vscode", "mcp.json") },
		serversKey: "servers",
		extra:      map[string]string{"type": "stdio"},
	},
	{
		name: "Cursor", marker: ".cursor",
		configPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		serversKey: "mcpServers",
	},
	{
		name:       "Claude Desktop",
		configPath: claudeDesktopConfigPath,
		serversKey: "mcpServers",
	},
}

func claudeDesktopConfigPath() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

// detected reports whether the agent appears to be in use on this machine.
func (a agent) detected() bool {
	if a.binary != "" {
		_, err := lookPathFunc(a.binary)
		return err == nil
	}
	if a.marker != "" {
		_, err := statFunc(a.marker)
		return err == nil
	}
	_, err := statFunc(filepath.Dir(a.configPath()))
	return err == nil
}

// serveArgs are the arguments agents pass to the binary.
func serveArgs(catalogPath string) []string {
	args := []string{"serve"}
	if catalogPath != "" {
		if abs, err := filepath.Abs(catalogPath); err == nil {
			catalogPath = abs
		}
		args = append(args, "--catalog", catalogPath)
	}
	return args
}

// mergeServerEntry adds a uicatalog entry under serversKey to an existing
// JSON config (or a new one). It returns nil, nil when the entry already exists.
func mergeServerEntry(existing []byte, serversKey string, args []string, extra map[string]string) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverName]; exists {
		return nil, nil
	}

	entryArgs := make([]any, len(args))
	for i, a := range args {
		entryArgs[i] = a
	}
	entry := map[string]any{"command": serverName, "args": entryArgs}
	for k, v := range extra {
		entry[k] = v
	}
	servers[serverName] = entry
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// configure registers the server with a. It reports false if a already had it.
func (a agent) configure(args []string) (bool, error) {
	if a.binary != "" {
		cliArgs := append([]string{"mcp", "add", serverName, "--", serverName}, args...)
		return true, runFunc(a.binary, cliArgs...)
	}

	path := a.configPath()
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	merged, err := mergeServerEntry(existing, a.serversKey, args, a.extra)
	if err != nil || merged == nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}
	return true, os.WriteFile(path, merged, 0644)
}

// promptYesNo reads Y/n; EOF and empty input mean yes.
func promptYesNo(r *bufio.Scanner, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [Y/n] ", question)
	if !r.Scan() {
		return true
	}
	answer := strings.ToLower(strings.TrimSpace(r.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}

// runSetup configures every detected agent, asking first unless auto is set.
func runSetup(r io.Reader, w io.Writer, catalogPath string, auto bool) {
	var found []agent
	for _, a := range agents {
		if a.detected() {
			found = append(found, a)
		}
	}
	if len(found) == 0 {
		fmt.Fprintln(w, "No supported coding agents detected.")
		return
	}

	args := serveArgs(catalogPath)
	scanner := bufio.NewScanner(r)
	for _, a := range found {
		if !auto && !promptYesNo(scanner, w, fmt.Sprintf("Add %s to %s?", serverName, a.name)) {
			fmt.Fprintf(w, "  - %s skipped\n", a.name)
			continue
		}
		changed, err := a.configure(args)
		switch {
		case err != nil:
			fmt.Fprintf(w, "  ! %s: %v\n", a.name, err)
		case !changed:
			fmt.Fprintf(w, "  = %s already configured\n", a.name)
		default:
			fmt.Fprintf(w, "  + %s configured\n", a.name)
		}
	}
}

func setupCmd(opts *globalOptions) *cobra.Command {
	var auto bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the MCP server with detected coding agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			runSetup(cmd.InOrStdin(), cmd.OutOrStdout(), s.config.CatalogPath, auto)
			return nil
		},
	}

	cmd.Flags().BoolVar(&auto, "auto", false, "configure every detected agent without prompting")
	return cmd
}
