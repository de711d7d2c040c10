// Package storage persists computed layouts so that the HTTP API can serve
// and re-render them by ID.
//
// Two backends implement [Store]:
//   - [MemoryStore]: in-process storage for development, tests and the CLI
//   - [MongoStore]: MongoDB-backed storage for multi-instance deployments
//
// # Usage
//
//	store, err := storage.NewMongoStore(ctx, storage.MongoConfig{
//	    URI:      "mongodb://localhost:27017",
//	    Database: "albumgrid",
//	})
//	rec := storage.NewRecord(album, opts, layout)
//	if err := store.Save(ctx, rec); err != nil {
//	    return err
//	}
//	rec, err = store.Get(ctx, rec.ID)
//	if errors.Is(err, storage.ErrNotFound) {
//	    // unknown or deleted layout
//	}
package storage

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/errors"
	"github.com/matzehuels/albumgrid/pkg/grouped"
	"github.com/matzehuels/albumgrid/pkg/pipeline"
)

// ErrNotFound is returned when no layout has the requested ID.
var ErrNotFound = errors.New(errors.ErrCodeLayoutNotFound, "layout not found")

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record is a stored layout together with the input that produced it.
type Record struct {
	ID        string           `json:"id" bson:"_id"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	Album     *album.Album     `json:"album" bson:"album"`
	Options   pipeline.Options `json:"options" bson:"options"`
	Layout    grouped.Result   `json:"layout" bson:"layout"`
}

// Clone returns a deep copy of r: the album, the layout slices and the
// option slices and pointers are not shared with r.
func (r *Record) Clone() *Record {
	out := *r
	out.Album = r.Album.Clone()
	out.Layout.Items = slices.Clone(r.Layout.Items)
	out.Layout.Rows = slices.Clone(r.Layout.Rows)
	out.Options.Formats = slices.Clone(r.Options.Formats)
	if r.Options.MinWidth != nil {
		out.Options.MinWidth = pipeline.Float(*r.Options.MinWidth)
	}
	if r.Options.Spacing != nil {
		out.Options.Spacing = pipeline.Float(*r.Options.Spacing)
	}
	return &out
}

// NewRecord creates a record with a fresh ID.
func NewRecord(a *album.Album, opts pipeline.Options, layout grouped.Result) *Record {
	return &Record{
		ID:        NewID(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Album:     a,
		Options:   opts,
		Layout:    layout,
	}
}

// NewID returns a random layout identifier.
func NewID() string {
	return uuid.NewString()
}

// Store is the interface for layout storage backends.
type Store interface {
	// Save inserts or replaces a record.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID.
	// Returns an error wrapping ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes a record.
	// Returns an error wrapping ErrNotFound if it doesn't exist.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func validateRecord(rec *Record) error {
	if rec == nil {
		return errors.New(errors.ErrCodeInvalidInput, "record is nil")
	}
	return errors.ValidateLayoutID(rec.ID)
}
