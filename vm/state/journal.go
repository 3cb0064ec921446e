package state

// Entry is a single undoable state change.
type Entry interface {
	Revert()
}

// RevertFunc adapts a closure into an Entry.
type RevertFunc func()

func (f RevertFunc) Revert() {
	f()
}

// Journal records every change made to the arena, the ledger and the event
// log since the outermost call started, so that a failing call frame can be
// rolled back to the state it observed when it was pushed.
//
// Snapshots are plain indices into the entry list. Reverting to a snapshot
// undoes the newer entries in reverse order; committing drops all entries.
type Journal struct {
	entries []Entry
}

func NewJournal() *Journal {
	return &Journal{}
}

// Append records e. It must be called after the change it undoes was made.
func (j *Journal) Append(e Entry) {
	j.entries = append(j.entries, e)
}

// Snapshot returns an identifier of the current journal position.
func (j *Journal) Snapshot() int {
	return len(j.entries)
}

// RevertTo undoes every change recorded after snapshot.
func (j *Journal) RevertTo(snapshot int) {
	if snapshot < 0 || snapshot > len(j.entries) {
		panic("journal snapshot out of range")
	}
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].Revert()
		j.entries[i] = nil
	}
	j.entries = j.entries[:snapshot]
}

// Commit forgets all recorded changes, they can no longer be reverted.
func (j *Journal) Commit() {
	j.entries = j.entries[:0]
}

// Len returns the number of recorded changes.
func (j *Journal) Len() int {
	return len(j.entries)
}
