package maildir

import (
	"os"
	"path/filepath"
	"sort"
)

const lockFileName = ".lock"

// StoreOp is the flag algebra STORE applies: replace, add or subtract a
// flag set from a message's current flags.
type StoreOp int

const (
	StoreReplace StoreOp = iota
	StoreAdd
	StoreSub
)

// Folder is one opened Maildir directory: an ordered, 1-indexed snapshot
// of messages plus the bookkeeping a SELECTed IMAP session needs.
type Folder struct {
	Path     string
	Messages []*Message

	UIDToSeqnum map[uint64]int // uid -> 1-based index into Messages

	Exists   int
	Recent   int
	Unseen   int // 1-based index of first message without \Seen, or Exists+1
	ReadOnly bool
}

// Open enumerates cur/ then new/ under path, assigns sequence numbers,
// moves any new/ arrivals into cur/, and acquires (or observes) the
// per-folder .lock file.
//
// Lock acquisition uses O_EXCL create instead of the original
// open-then-create sequence: two sessions racing to SELECT the same
// folder can no longer both conclude they hold the write lock (see
// DESIGN.md, "lock-file race").
func Open(path string, examine bool) (*Folder, error) {
	f := &Folder{
		Path:        path,
		UIDToSeqnum: make(map[uint64]int),
	}

	if examine {
		f.ReadOnly = true
	} else {
		lockPath := filepath.Join(path, lockFileName)
		lf, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err != nil {
			f.ReadOnly = true
		} else {
			_, _ = lf.WriteString("selected")
			lf.Close()
		}
	}

	curEntries, err := readDirSorted(filepath.Join(path, "cur"))
	if err != nil {
		return nil, err
	}
	newEntries, err := readDirSorted(filepath.Join(path, "new"))
	if err != nil {
		return nil, err
	}

	f.Unseen = 0
	for _, name := range curEntries {
		msg, err := LoadMessage(filepath.Join(path, "cur", name))
		if err != nil {
			continue
		}
		f.appendMessage(msg)
	}
	old := len(f.Messages)

	for _, name := range newEntries {
		msg, err := LoadMessage(filepath.Join(path, "new", name))
		if err != nil {
			continue
		}
		f.appendMessage(msg)
	}

	// Move new/ arrivals into cur/; keep the original path if the rename
	// fails rather than aborting the whole open.
	for i := old; i < len(f.Messages); i++ {
		msg := f.Messages[i]
		newPath := filepath.Join(path, "cur", filepath.Base(msg.Path))
		if err := os.Rename(msg.Path, newPath); err == nil {
			msg.Path = newPath
		}
	}

	f.Exists = len(f.Messages)
	f.Recent = f.Exists - old

	if f.Unseen == 0 {
		f.Unseen = f.Exists + 1
	}

	return f, nil
}

// appendMessage adds a message to the snapshot, maintaining the uid
// index and the running "first unseen" anchor.
//
// The anchor is "first i where \Seen is NOT in flags[i]" — the
// corrected semantics of what the original predicate's name promised;
// see DESIGN.md, "`is_unseen` / `unseen` anchor".
func (f *Folder) appendMessage(msg *Message) {
	f.Messages = append(f.Messages, msg)
	idx := len(f.Messages)
	f.UIDToSeqnum[msg.UID] = idx
	if f.Unseen == 0 && !msg.Flags.Has(FlagSeen) {
		f.Unseen = idx
	}
}

func readDirSorted(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// StoreResult is one reported FETCH line produced by Store, unless the
// caller asked for silent operation.
type StoreResult struct {
	Seqnum int
	UID    uint64
	Flags  FlagSet
}

// Store applies op to the flags of each identified message, recomputing
// Deleted, and returns the per-message results for rendering (empty if
// silent). Identifiers are sequence numbers unless seqIsUID is true, in
// which case they are UIDs translated via UIDToSeqnum; unknown UIDs are
// skipped.
func (f *Folder) Store(ids []uint64, op StoreOp, flags FlagSet, silent bool, seqIsUID bool) []StoreResult {
	var results []StoreResult

	for _, id := range ids {
		seq := int(id)
		if seqIsUID {
			var ok bool
			seq, ok = f.UIDToSeqnum[id]
			if !ok {
				continue
			}
		}
		if seq < 1 || seq > len(f.Messages) {
			continue
		}

		msg := f.Messages[seq-1]
		switch op {
		case StoreReplace:
			msg.Flags = flags
		case StoreAdd:
			msg.Flags = msg.Flags.Union(flags)
		case StoreSub:
			msg.Flags = msg.Flags &^ flags
		}
		msg.Deleted = msg.Flags.Has(FlagDeleted)

		if !silent {
			results = append(results, StoreResult{Seqnum: seq, UID: msg.UID, Flags: msg.Flags})
		}
	}

	return results
}

// Expunge removes every message flagged Deleted from disk, in order,
// using a moving cursor so reported indices always reflect the
// shrinking list as seen by the client. It is a no-op returning nil in
// a readonly folder. The lock file is always removed on completion of
// a writable EXPUNGE, even if nothing was deleted.
func (f *Folder) Expunge() []int {
	if f.ReadOnly {
		return nil
	}

	var reported []int
	var remaining []*Message
	cursor := 1
	for _, msg := range f.Messages {
		if msg.Deleted {
			_ = os.Remove(msg.Path)
			reported = append(reported, cursor)
			continue
		}
		remaining = append(remaining, msg)
		cursor++
	}
	f.Messages = remaining
	f.rebuildIndex()
	f.Exists = len(f.Messages)

	_ = os.Remove(filepath.Join(f.Path, lockFileName))

	return reported
}

// Check reconciles each message's on-disk filename with its current
// in-memory flag set, renaming within cur/ where they differ. No-op in
// readonly mode.
func (f *Folder) Check() error {
	if f.ReadOnly {
		return nil
	}
	for _, msg := range f.Messages {
		wantName := NewFilename(msg.UID, msg.Flags)
		wantPath := filepath.Join(f.Path, "cur", wantName)
		if wantPath == msg.Path {
			continue
		}
		if err := os.Rename(msg.Path, wantPath); err != nil {
			return err
		}
		msg.Path = wantPath
	}
	return nil
}

func (f *Folder) rebuildIndex() {
	f.UIDToSeqnum = make(map[uint64]int, len(f.Messages))
	for i, msg := range f.Messages {
		f.UIDToSeqnum[msg.UID] = i + 1
	}
}

// Message returns the message at the given 1-based sequence number, or
// nil if out of range.
func (f *Folder) Message(seqnum int) *Message {
	if seqnum < 1 || seqnum > len(f.Messages) {
		return nil
	}
	return f.Messages[seqnum-1]
}
