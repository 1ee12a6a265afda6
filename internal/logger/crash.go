// Package logger records crash reports for reachinspect.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultCrashDir is used when no crash directory is configured.
	DefaultCrashDir = ".reachinspect/crash_logs"

	// MaxCrashLogs is the maximum number of crash logs to keep
	MaxCrashLogs = 10
)

// CrashContext stores what was being processed when a crash happened.
type CrashContext struct {
	mu         sync.RWMutex
	dir        string
	version    string
	command    string
	runID      string
	transcript string
	lineNo     int
	lastLine   string
}

var globalContext = &CrashContext{}

// SetDir sets the directory crash logs are written to.
func SetDir(dir string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.dir = dir
}

// SetVersion sets the application version for crash logs.
func SetVersion(version string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.version = version
}

// SetCommand sets the current command being executed.
func SetCommand(cmd string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.command = cmd
}

// SetRun records the run id and the transcript source (a path or "stdin").
func SetRun(runID, transcript string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.runID = runID
	globalContext.transcript = transcript
	globalContext.lineNo = 0
	globalContext.lastLine = ""
}

// SetLastLine records the transcript line being processed.
func SetLastLine(n int, line string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.lineNo = n
	globalContext.lastLine = truncateForLog(line, 500)
}

func truncateForLog(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// CrashLog represents a crash log entry.
type CrashLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	RunID      string    `json:"run_id,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
	LineNumber int       `json:"line_number,omitempty"`
	LastLine   string    `json:"last_line,omitempty"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// HandlePanic recovers from a panic, writes a crash log and exits 1.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	if r := recover(); r != nil {
		log := createCrashLog(r)
		if err := writeCrashLog(log); err != nil {
			fmt.Fprintf(os.Stderr, "\n[CRASH] Failed to write crash log: %v\n", err)
			fmt.Fprintf(os.Stderr, "[CRASH] Panic: %v\n%s\n", r, debug.Stack())
		} else {
			fmt.Fprintf(os.Stderr, "\nreachinspect crashed")
			if log.LineNumber > 0 {
				fmt.Fprintf(os.Stderr, " on transcript line %d", log.LineNumber)
			}
			fmt.Fprintf(os.Stderr, ".\nA crash log has been saved to:\n  %s\n\n", getCrashLogPath(log.Timestamp))
		}
		os.Exit(1)
	}
}

func createCrashLog(panicValue any) CrashLog {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	return CrashLog{
		Timestamp:  time.Now(),
		Version:    globalContext.version,
		Command:    globalContext.command,
		RunID:      globalContext.runID,
		Transcript: globalContext.transcript,
		LineNumber: globalContext.lineNo,
		LastLine:   globalContext.lastLine,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

func writeCrashLog(log CrashLog) error {
	dir := getCrashLogDir()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create crash log dir: %w", err)
	}

	if err := cleanOldCrashLogs(dir); err != nil {
		// Non-fatal, continue with writing
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}

	path := getCrashLogPath(log.Timestamp)
	if err := os.WriteFile(path, []byte(formatCrashLog(log)), 0644); err != nil {
		return fmt.Errorf("write crash log: %w", err)
	}

	return nil
}

func getCrashLogDir() string {
	globalContext.mu.RLock()
	dir := globalContext.dir
	globalContext.mu.RUnlock()

	if dir == "" {
		return DefaultCrashDir
	}
	return dir
}

func getCrashLogPath(t time.Time) string {
	filename := fmt.Sprintf("crash_%s.log", t.Format("20060102_150405"))
	return filepath.Join(getCrashLogDir(), filename)
}

// formatCrashLog formats a CrashLog as human-readable text.
func formatCrashLog(log CrashLog) string {
	var sb strings.Builder
	rule := strings.Repeat("-", 80)

	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString("REACHINSPECT CRASH LOG\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(fmt.Sprintf("Timestamp: %s\n", log.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Version:   %s\n", log.Version))
	sb.WriteString(fmt.Sprintf("Command:   %s\n", log.Command))
	if log.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run:       %s\n", log.RunID))
	}
	sb.WriteString(fmt.Sprintf("Go:        %s\n", log.GoVersion))
	sb.WriteString(fmt.Sprintf("OS/Arch:   %s/%s\n", log.OS, log.Arch))

	if log.Transcript != "" {
		sb.WriteString("\n" + rule + "\n")
		sb.WriteString("TRANSCRIPT\n")
		sb.WriteString(rule + "\n")
		sb.WriteString(fmt.Sprintf("Source: %s\n", log.Transcript))
		if log.LineNumber > 0 {
			sb.WriteString(fmt.Sprintf("Line %d: %s\n", log.LineNumber, log.LastLine))
		}
	}

	sb.WriteString("\n" + rule + "\n")
	sb.WriteString("PANIC VALUE\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(log.PanicValue + "\n")

	sb.WriteString("\n" + rule + "\n")
	sb.WriteString("STACK TRACE\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(log.StackTrace)

	sb.WriteString("\n" + strings.Repeat("=", 80) + "\n")
	sb.WriteString("END OF CRASH LOG\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	return sb.String()
}

// cleanOldCrashLogs removes old crash logs, keeping only MaxCrashLogs most recent.
func cleanOldCrashLogs(dir string) error {
	logs, err := listCrashLogs(dir)
	if err != nil {
		return err
	}
	if len(logs) <= MaxCrashLogs {
		return nil
	}

	// Names embed the timestamp and os.ReadDir sorts them, so oldest come first.
	for _, path := range logs[:len(logs)-MaxCrashLogs] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// ListCrashLogs returns the crash logs in the configured directory.
func ListCrashLogs() ([]string, error) {
	return listCrashLogs(getCrashLogDir())
}

func listCrashLogs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".log") {
			logs = append(logs, filepath.Join(dir, e.Name()))
		}
	}
	return logs, nil
}
