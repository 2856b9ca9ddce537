package notes

import "time"

// Note is the outward representation used by list responses and mutations:
// folder and tags appear as references.
type Note struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Created  time.Time `json:"created"`
	FolderID *string   `json:"folderId"`
	Tags     []string  `json:"tags"`
}

// FolderRef is a populated folder reference on a single-note read.
type FolderRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagRef is a populated tag reference on a single-note read.
type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NoteDetail is the single-note representation: the folder and tag references
// are populated into their full representations.
type NoteDetail struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Created time.Time  `json:"created"`
	Folder  *FolderRef `json:"folder"`
	Tags    []TagRef   `json:"tags"`
}

// CreateNoteParams carries input for creating a note. The same shape drives
// updates: a full replacement, not a patch.
type CreateNoteParams struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	FolderID *string  `json:"folderId"`
	Tags     []string `json:"tags"`
}

// ListFilter holds the optional list-notes conditions. All present conditions
// combine with logical AND, always inside the caller's ownership scope.
type ListFilter struct {
	SearchTerm string
	FolderID   string
	TagID      string
}
