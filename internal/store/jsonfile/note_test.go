package jsonfile

import (
	"testing"
	"time"
)

func setupNoteStore(t *testing.T) *NoteStore {
	t.Helper()
	return NewNoteStore(t.TempDir())
}

func strptr(s string) *string { return &s }

func TestNoteCRUD(t *testing.T) {
	ns := setupNoteStore(t)

	note, err := ns.Create("owner-1", "Shopping", "Buy milk")
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if len(note.ID) != 64 {
		t.Errorf("id length = %d, want 64", len(note.ID))
	}
	if note.Owner != "owner-1" {
		t.Errorf("owner = %q, want %q", note.Owner, "owner-1")
	}
	if !note.CreatedAt.Equal(note.UpdatedAt) {
		t.Errorf("createdAt %v != updatedAt %v at creation", note.CreatedAt, note.UpdatedAt)
	}

	got, err := ns.Get("owner-1", note.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got == nil || got.Title != "Shopping" {
		t.Fatalf("get = %v, want Shopping", got)
	}

	updated, err := ns.Update("owner-1", note.ID, strptr("Groceries"), nil)
	if err != nil {
		t.Fatalf("update note: %v", err)
	}
	if updated.Title != "Groceries" {
		t.Errorf("title = %q, want %q", updated.Title, "Groceries")
	}
	if updated.Description != "Buy milk" {
		t.Errorf("description = %q, want prior value retained", updated.Description)
	}
	if !updated.UpdatedAt.After(note.UpdatedAt) {
		t.Errorf("updatedAt not refreshed: %v <= %v", updated.UpdatedAt, note.UpdatedAt)
	}

	deleted, err := ns.Delete("owner-1", note.ID)
	if err != nil {
		t.Fatalf("delete note: %v", err)
	}
	if deleted == nil || deleted.Title != "Groceries" {
		t.Fatalf("delete = %v, want last state", deleted)
	}

	got, err = ns.Get("owner-1", note.ID)
	if err != nil {
		t.Fatalf("get deleted note: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestNoteOwnershipHidesForeignNotes(t *testing.T) {
	ns := setupNoteStore(t)

	note, err := ns.Create("alice", "Secret", "alice only")
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	if got, _ := ns.Get("bob", note.ID); got != nil {
		t.Error("foreign Get should return nil")
	}
	if got, _ := ns.Update("bob", note.ID, strptr("stolen"), nil); got != nil {
		t.Error("foreign Update should return nil")
	}
	if got, _ := ns.Delete("bob", note.ID); got != nil {
		t.Error("foreign Delete should return nil")
	}

	// The record is untouched for its real owner.
	got, err := ns.Get("alice", note.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got == nil || got.Title != "Secret" {
		t.Fatalf("get = %v, want untouched note", got)
	}
}

func TestNoteListByOwnerSortedAndFiltered(t *testing.T) {
	ns := setupNoteStore(t)

	first, _ := ns.Create("alice", "first", "a")
	time.Sleep(2 * time.Millisecond)
	second, _ := ns.Create("alice", "second", "b")
	ns.Create("bob", "bobs", "c")

	notes, err := ns.ListByOwner("alice")
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[0].ID != second.ID || notes[1].ID != first.ID {
		t.Errorf("order = [%s %s], want newest update first", notes[0].Title, notes[1].Title)
	}

	// Updating the oldest note moves it to the front.
	time.Sleep(2 * time.Millisecond)
	if _, err := ns.Update("alice", first.ID, nil, strptr("touched")); err != nil {
		t.Fatalf("update note: %v", err)
	}
	notes, err = ns.ListByOwner("alice")
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if notes[0].ID != first.ID {
		t.Errorf("updated note should sort first, got %q", notes[0].Title)
	}
}

func TestNoteListEmptyOwner(t *testing.T) {
	ns := setupNoteStore(t)

	notes, err := ns.ListByOwner("nobody")
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("expected empty list, got %d", len(notes))
	}
}

func TestNoteDeleteTwice(t *testing.T) {
	ns := setupNoteStore(t)

	note, _ := ns.Create("alice", "once", "")
	if deleted, _ := ns.Delete("alice", note.ID); deleted == nil {
		t.Fatal("first delete should return the record")
	}
	deleted, err := ns.Delete("alice", note.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted != nil {
		t.Error("second delete should return nil")
	}
}

func TestNoteUpdateAllowsEmptyString(t *testing.T) {
	ns := setupNoteStore(t)

	note, _ := ns.Create("alice", "title", "desc")
	updated, err := ns.Update("alice", note.ID, strptr(""), nil)
	if err != nil {
		t.Fatalf("update note: %v", err)
	}
	// Provided-but-empty is applied; only a nil field is "omitted".
	if updated.Title != "" {
		t.Errorf("title = %q, want empty string applied", updated.Title)
	}
	if updated.Description != "desc" {
		t.Errorf("description = %q, want retained", updated.Description)
	}
}
