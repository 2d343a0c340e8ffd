// Package progress prints throttled, line-based status updates to
// stderr — the right choice for the non-interactive environments this
// tool actually runs in (cron, CI, containers), as opposed to a TTY
// progress bar.
//
// Generalized from gyeh-price-is-right/internal/progress/log.go's
// LogManager/logTracker: one Manager per run, one Tracker per URL/file
// being processed, each Tracker throttling its own progress lines to
// logInterval.
package progress

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// NewErrorLogger builds the structured logger used for errors and other
// events that a log aggregator should be able to parse, as distinct from
// the throttled human-readable lines a Tracker prints. Grounded on
// vjache-cie's cmd/cie logger setup, swapped to a JSON handler since these
// records are meant for machine consumption, not a terminal.
func NewErrorLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

const (
	logInterval  = 20 * time.Second
	logNameWidth = 40
)

// Tracker reports progress for a single URL moving through the pipeline.
type Tracker interface {
	SetStage(stage string)
	SetProgress(current, total int64)
	SetCounter(name string, value int64)
	LogWarning(msg string)
	Done()
}

// Manager creates Trackers and owns the run-wide completed/total counters.
type Manager struct {
	mu        sync.Mutex
	completed int32
	total     int32
	runID     string
}

// NewManager creates a progress manager for a run of n URLs. Every printed
// line is tagged with a run ID taken from the last 8 characters of the
// hostname — useful when several instances' logs are interleaved in a
// shared collector.
func NewManager(n int) *Manager {
	runID, _ := os.Hostname()
	if len(runID) > 8 {
		runID = runID[len(runID)-8:]
	}
	return &Manager{total: int32(n), runID: runID}
}

func (m *Manager) NewTracker(index int, filename string) Tracker {
	name := strings.TrimSuffix(filename, ".json")
	name = strings.TrimSuffix(name, ".csv")
	if len(name) > logNameWidth {
		name = "..." + name[len(name)-(logNameWidth-3):]
	}
	return &tracker{
		mgr:   m,
		index: index,
		name:  fmt.Sprintf("%-*s", logNameWidth, name),
		start: time.Now(),
	}
}

func (m *Manager) log(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(os.Stderr, "%s %s\n", ts, msg)
}

// tracker implements Tracker with throttled log output for one URL.
type tracker struct {
	mgr       *Manager
	index     int
	name      string
	start     time.Time
	stage     string
	lastLog   time.Time
	prevBytes int64
	prevTime  time.Time
}

func (t *tracker) log(msg string) {
	t.mgr.mu.Lock()
	defer t.mgr.mu.Unlock()
	ts := time.Now().Format("15:04:05")
	prefix := ""
	if t.mgr.runID != "" {
		prefix = fmt.Sprintf("[run|%s] ", t.mgr.runID)
	}
	w := len(fmt.Sprintf("%d", t.mgr.total))
	fmt.Fprintf(os.Stderr, "%s %s[url|%*d/%d] [%s]  %s\n", ts, prefix, w, t.mgr.completed, t.mgr.total, t.name, msg)
}

func (t *tracker) SetStage(stage string) {
	t.stage = stage
	t.lastLog = time.Time{}
	t.prevBytes = 0
	t.prevTime = time.Time{}
	t.log(stage)
}

func (t *tracker) SetProgress(current, total int64) {
	now := time.Now()
	if now.Sub(t.lastLog) < logInterval {
		return
	}

	speedStr := ""
	if !t.prevTime.IsZero() {
		elapsed := now.Sub(t.prevTime).Seconds()
		if elapsed > 0 {
			mbps := float64(current-t.prevBytes) / elapsed / (1024 * 1024)
			speedStr = fmt.Sprintf("  %.1f MB/s", mbps)
		}
	}
	t.prevBytes = current
	t.prevTime = now
	t.lastLog = now

	if total > 0 {
		pct := float64(current) / float64(total) * 100
		t.log(fmt.Sprintf("%s  %s / %s (%.0f%%)%s", t.stage, humanBytes(current), humanBytes(total), pct, speedStr))
	} else if current > 0 {
		t.log(fmt.Sprintf("%s  %s%s", t.stage, humanBytes(current), speedStr))
	}
}

func (t *tracker) SetCounter(name string, value int64) {
	if time.Since(t.lastLog) < logInterval {
		return
	}
	t.lastLog = time.Now()
	t.log(fmt.Sprintf("%s  %s: %s", t.stage, name, humanCount(value)))
}

func (t *tracker) LogWarning(msg string) {
	t.log("WARN: " + msg)
}

func (t *tracker) Done() {
	done := atomic.AddInt32(&t.mgr.completed, 1)
	elapsed := time.Since(t.start).Truncate(time.Second)
	t.log(fmt.Sprintf("finished in %s  [%d/%d urls complete]", elapsed, done, t.mgr.total))
}

func humanBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func humanCount(n int64) string {
	if n < 0 {
		return "-" + humanCount(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return humanCount(n/1000) + fmt.Sprintf(",%03d", n%1000)
}
