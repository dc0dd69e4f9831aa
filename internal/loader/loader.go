// Package loader materializes debug-info entity trees from compiled
// binaries (ELF, Mach-O, PE) or from saved snapshots. The print engine only
// ever sees the read-only model this package produces.
package loader

import (
	"fmt"

	"dbgdiff/internal/model"
	"dbgdiff/internal/snapshot"
)

// Stage identifies a loading phase for progress reporting.
type Stage uint8

const (
	// StageOpen means the container format is being parsed.
	StageOpen Stage = iota
	// StageUnits means compilation units are being materialized.
	StageUnits
	// StageDone means the file is fully loaded.
	StageDone
)

// Event is one progress notification.
type Event struct {
	Path   string
	Stage  Stage
	Detail string
}

// Sink receives progress events. Implementations must not block the loader.
type Sink interface {
	Send(Event)
}

// ChannelSink forwards events to a channel, dropping them when the receiver
// lags behind.
type ChannelSink struct {
	Ch chan<- Event
}

// Send implements Sink.
func (s ChannelSink) Send(ev Event) {
	select {
	case s.Ch <- ev:
	default:
	}
}

type nopSink struct{}

func (nopSink) Send(Event) {}

// Load materializes the debug-info tree of path. Snapshot files are decoded
// directly; anything else is opened as a binary.
func Load(path string, progress Sink) (*model.File, error) {
	if progress == nil {
		progress = nopSink{}
	}
	if snapshot.IsSnapshot(path) {
		progress.Send(Event{Path: path, Stage: StageOpen, Detail: "snapshot"})
		file, err := snapshot.Read(path)
		if err != nil {
			return nil, err
		}
		progress.Send(Event{Path: path, Stage: StageDone})
		return file, nil
	}

	progress.Send(Event{Path: path, Stage: StageOpen})
	obj, err := openObject(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer obj.close()

	file, err := parseDwarf(path, obj, progress)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	progress.Send(Event{Path: path, Stage: StageDone})
	return file, nil
}
