package storage

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/wal"
	"github.com/vmihailenco/msgpack/v5"

	"ctp/internal/domain"
)

// History is the append-only journal of run summaries, one msgpack entry per run
type History struct {
	mu  sync.Mutex
	log *wal.Log
}

// OpenHistory opens or creates the journal in dir
func OpenHistory(dir string) (*History, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.WithMessage(err, "could not create history directory")
	}
	log, err := wal.Open(dir, &wal.Options{
		NoSync: true,
		NoCopy: true,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "could not open history journal")
	}
	return &History{log: log}, nil
}

// Append writes entry at the end of the journal and syncs it to disk
func (h *History) Append(entry domain.HistoryEntry) error {
	data, err := msgpack.Marshal(&entry)
	if err != nil {
		return errors.WithMessage(err, "could not marshal history entry")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	last, err := h.log.LastIndex()
	if err != nil {
		return errors.WithMessage(err, "could not read last index")
	}
	if err := h.log.Write(last+1, data); err != nil {
		return errors.WithMessagef(err, "could not append entry %d", last+1)
	}
	if err := h.log.Sync(); err != nil {
		return errors.WithMessage(err, "could not sync history to filesystem")
	}
	return nil
}

// Entries returns up to limit of the most recent entries, oldest first. A limit of zero returns all.
func (h *History) Entries(limit int) ([]domain.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	first, err := h.log.FirstIndex()
	if err != nil {
		return nil, errors.WithMessage(err, "could not read first index")
	}
	last, err := h.log.LastIndex()
	if err != nil {
		return nil, errors.WithMessage(err, "could not read last index")
	}
	if last == 0 {
		return nil, nil
	}
	if limit > 0 && last-first+1 > uint64(limit) {
		first = last - uint64(limit) + 1
	}

	entries := make([]domain.HistoryEntry, 0, last-first+1)
	for i := first; i <= last; i++ {
		data, err := h.log.Read(i)
		if err != nil {
			return nil, errors.WithMessagef(err, "could not read index %d", i)
		}
		var entry domain.HistoryEntry
		if err := msgpack.Unmarshal(data, &entry); err != nil {
			return nil, errors.WithMessagef(err, "could not decode entry %d, is the journal corrupt?", i)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Last returns the most recent entry; ok is false for an empty journal
func (h *History) Last() (entry domain.HistoryEntry, ok bool, err error) {
	entries, err := h.Entries(1)
	if err != nil || len(entries) == 0 {
		return domain.HistoryEntry{}, false, err
	}
	return entries[0], true, nil
}

// Prune drops all but the newest keep entries
func (h *History) Prune(keep int) error {
	if keep <= 0 {
		return errors.Errorf("keep must be positive, got %d", keep)
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	first, err := h.log.FirstIndex()
	if err != nil {
		return errors.WithMessage(err, "could not read first index")
	}
	last, err := h.log.LastIndex()
	if err != nil {
		return errors.WithMessage(err, "could not read last index")
	}
	if last == 0 || last-first+1 <= uint64(keep) {
		return nil
	}
	if err := h.log.TruncateFront(last - uint64(keep) + 1); err != nil {
		return errors.WithMessage(err, "could not truncate history")
	}
	return nil
}

// Close closes the journal
func (h *History) Close() error {
	return h.log.Close()
}
