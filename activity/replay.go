package activity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// replayRecord is the JSONL shape of a recorded monitoring session.
type replayRecord struct {
	AppName      string `json:"app_name"`
	WindowTitle  string `json:"window_title"`
	HashDistance int    `json:"hash_distance"`
	WasSkipped   bool   `json:"was_skipped"`
	TimestampMS  int64  `json:"timestamp_ms"`
}

// ReadReplay decodes a JSONL stream of monitoring ticks. Blank lines are
// skipped; any malformed line aborts the read with its line number.
func ReadReplay(r io.Reader) ([]Tick, error) {
	var ticks []Tick
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec replayRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("activity: replay line %d: %w", line, err)
		}
		ticks = append(ticks, Tick{
			AppName:      rec.AppName,
			WindowTitle:  rec.WindowTitle,
			HashDistance: rec.HashDistance,
			WasSkipped:   rec.WasSkipped,
			Timestamp:    time.UnixMilli(rec.TimestampMS),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("activity: read replay: %w", err)
	}
	return ticks, nil
}

// LoadReplay reads a replay file from disk.
func LoadReplay(path string) ([]Tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("activity: open replay: %w", err)
	}
	defer f.Close()
	return ReadReplay(f)
}
