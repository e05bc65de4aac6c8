package corpus

import (
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/hupe1980/strknn/token"
)

// Entry is one uploaded string.
type Entry struct {
	// ID is assigned sequentially starting at 0.
	ID uint64
	// Original is the verbatim uploaded string.
	Original string
	// Tokens is the normalized token sequence of Original.
	Tokens token.Sequence
	// Runes is Tokens.Runes(), precomputed for distance lower bounds.
	Runes int
}

// Snapshot is an immutable, consistent view of the store.
type Snapshot struct {
	entries []Entry
}

// Len returns the number of entries in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Version identifies the snapshot. Because the store is append-only, the
// version is the entry count and increases with every non-empty append.
func (s *Snapshot) Version() uint64 {
	return uint64(s.Len())
}

// At returns the entry at position i. Since IDs start at 0 and are never
// reused, position and ID coincide.
func (s *Snapshot) At(i int) Entry {
	return s.entries[i]
}

// Entries returns the entries in insertion order.
// The returned slice must be treated as read-only.
func (s *Snapshot) Entries() []Entry {
	if s == nil {
		return nil
	}
	return s.entries[:len(s.entries):len(s.entries)]
}

// All iterates over the entries in insertion order.
func (s *Snapshot) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range s.Entries() {
			if !yield(e) {
				return
			}
		}
	}
}

// Options configures a Store.
type Options struct {
	// MaxEntries caps the number of entries. Zero means unlimited.
	MaxEntries int

	// Tokenizer splits uploaded strings. Defaults to token.New().
	Tokenizer *token.Tokenizer
}

// DefaultOptions contains the default Store options.
var DefaultOptions = Options{}

// Store is the append-only corpus. It is safe for concurrent use.
type Store struct {
	opts Options

	mu       sync.Mutex // serializes writers
	snapshot atomic.Pointer[Snapshot]
}

// New creates an empty store.
func New(optFns ...func(o *Options)) *Store {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Tokenizer == nil {
		opts.Tokenizer = token.New()
	}

	s := &Store{opts: opts}
	s.snapshot.Store(&Snapshot{})
	return s
}

// Tokenizer returns the tokenizer used for uploaded strings.
func (s *Store) Tokenizer() *token.Tokenizer {
	return s.opts.Tokenizer
}

// Snapshot returns the current immutable view.
func (s *Store) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Size returns the current number of entries.
func (s *Store) Size() int {
	return s.Snapshot().Len()
}

// Entries returns the current entries in insertion order (read-only).
func (s *Store) Entries() []Entry {
	return s.Snapshot().Entries()
}

// Validate checks a batch without modifying the store.
func Validate(strs []string) error {
	for i, str := range strs {
		if !utf8.ValidString(str) {
			return &InvalidStringError{Index: i, Reason: "not valid UTF-8"}
		}
	}
	return nil
}

// Append tokenizes strs and appends them as new entries, returning their IDs.
// The whole batch is validated first; on error nothing is appended.
// An empty batch is a no-op.
func (s *Store) Append(strs []string) ([]uint64, error) {
	if len(strs) == 0 {
		return nil, nil
	}
	if err := Validate(strs); err != nil {
		return nil, err
	}

	pending := make([]Entry, len(strs))
	for i, str := range strs {
		tokens := s.opts.Tokenizer.Tokenize(str)
		pending[i] = Entry{
			Original: str,
			Tokens:   tokens,
			Runes:    tokens.Runes(),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.snapshot.Load()
	base := len(current.entries)
	if s.opts.MaxEntries > 0 && base+len(pending) > s.opts.MaxEntries {
		return nil, fmt.Errorf("%w: %d + %d > %d", ErrCapacityExceeded, base, len(pending), s.opts.MaxEntries)
	}

	ids := make([]uint64, len(pending))
	for i := range pending {
		id := uint64(base + i)
		pending[i].ID = id
		ids[i] = id
	}

	// Writes land past the end of every published snapshot, so readers of
	// older snapshots never see them. A reallocation leaves them untouched.
	next := append(current.entries, pending...)
	s.snapshot.Store(&Snapshot{entries: next})

	return ids, nil
}
