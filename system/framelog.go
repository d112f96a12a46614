package system

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/milk9111/tilepath/ecs"
)

// FrameRecord is one simulated frame as written to a frame log.
type FrameRecord struct {
	Level  string        `json:"level"`
	Frame  int           `json:"frame"`
	Agents []AgentState  `json:"agents"`
	Events []EventRecord `json:"events,omitempty"`
}

type EventRecord struct {
	Entity ecs.Entity        `json:"entity"`
	Kind   ecs.PathEventKind `json:"kind"`
}

// Record snapshots the world after a Step that raised events.
func (w *World) Record(events []ecs.Event) FrameRecord {
	rec := FrameRecord{Frame: w.Frame(), Agents: w.Agents()}
	if w.Level != nil {
		rec.Level = w.Level.Name
	}
	for _, evt := range events {
		if pe, ok := evt.Data.(ecs.PathEvent); ok {
			rec.Events = append(rec.Events, EventRecord{Entity: pe.Entity, Kind: pe.Kind})
		}
	}
	return rec
}

// FrameLog writes zstd-compressed JSON lines, one FrameRecord per line.
type FrameLog struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func CreateFrameLog(path string) (*FrameLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &FrameLog{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

func (l *FrameLog) Write(rec FrameRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	return l.w.WriteByte('\n')
}

func (l *FrameLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var first error
	if err := l.w.Flush(); err != nil {
		first = err
	}
	if err := l.enc.Close(); err != nil && first == nil {
		first = err
	}
	if err := l.f.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// ReadFrameLog decodes every record in a frame log.
func ReadFrameLog(path string) ([]FrameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []FrameRecord
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for line := 1; sc.Scan(); line++ {
		var rec FrameRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("frame log %s: line %d: %w", path, line, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("frame log %s: %w", path, err)
	}
	return out, nil
}
