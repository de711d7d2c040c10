package storage

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/errors"
	"github.com/matzehuels/albumgrid/pkg/grouped"
	"github.com/matzehuels/albumgrid/pkg/pipeline"
)

func testRecord(t *testing.T) *Record {
	t.Helper()
	sizes := []grouped.Size{{W: 100, H: 100}, {W: 100, H: 100}}
	res, err := grouped.Compute(sizes, grouped.Constraints{MaxWidth: 300, MinWidth: 50, Spacing: 8})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return NewRecord(album.FromSizes(sizes), pipeline.Options{Formats: []string{"svg"}}, res)
}

func TestNewRecord(t *testing.T) {
	rec := testRecord(t)
	if err := errors.ValidateLayoutID(rec.ID); err != nil {
		t.Errorf("NewRecord ID %q is not a valid layout id: %v", rec.ID, err)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if other := NewRecord(nil, pipeline.Options{}, grouped.Result{}); other.ID == rec.ID {
		t.Error("NewRecord returned duplicate IDs")
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	rec := testRecord(t)
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != rec.ID || len(got.Layout.Items) != 2 {
		t.Errorf("Get = %+v, want record %s with 2 items", got, rec.ID)
	}
	if got.Layout.Width != 300 || got.Layout.Height != 146 {
		t.Errorf("bounds = %vx%v, want 300x146", got.Layout.Width, got.Layout.Height)
	}

	got.Options.Radius = 99
	again, _ := s.Get(ctx, rec.ID)
	if again.Options.Radius == 99 {
		t.Error("mutating a returned record changed the stored copy")
	}
}

func TestMemoryStoreDeepCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := testRecord(t)
	rec.Album.Layout = album.LayoutOf(grouped.Constraints{MaxWidth: 300, MinWidth: 50, Spacing: 8})
	rec.Options.Spacing = pipeline.Float(8)
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Changes to the saved value must not reach the store.
	rec.Album.Items[0].Width = 1
	rec.Layout.Items[0].Geometry.X = 999

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Album.Items[0].Width == 1 || got.Layout.Items[0].Geometry.X == 999 {
		t.Fatal("mutating the saved record changed the stored copy")
	}

	tests := []struct {
		name   string
		mutate func(r *Record)
		check  func(r *Record) bool
	}{
		{"album items", func(r *Record) { r.Album.Items[0].Height = 7 }, func(r *Record) bool { return r.Album.Items[0].Height == 7 }},
		{"album layout", func(r *Record) { *r.Album.Layout.Spacing = 0 }, func(r *Record) bool { return *r.Album.Layout.Spacing == 0 }},
		{"layout items", func(r *Record) { r.Layout.Items[1].Sides = 0 }, func(r *Record) bool { return r.Layout.Items[1].Sides == 0 }},
		{"formats", func(r *Record) { r.Options.Formats[0] = "png" }, func(r *Record) bool { return r.Options.Formats[0] == "png" }},
		{"spacing", func(r *Record) { *r.Options.Spacing = 0 }, func(r *Record) bool { return *r.Options.Spacing == 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Get(ctx, rec.ID)
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(got)

			again, err := s.Get(ctx, rec.ID)
			if err != nil {
				t.Fatal(err)
			}
			if tt.check(again) {
				t.Error("mutating a returned record changed the stored copy")
			}

			listed, err := s.List(ctx, 0)
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(listed[0])
			if again, _ = s.Get(ctx, rec.ID); tt.check(again) {
				t.Error("mutating a listed record changed the stored copy")
			}
		})
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "missing")
	if !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Get missing: err = %v, want ErrNotFound", err)
	}
	if !errors.IsNotFound(err) {
		t.Errorf("Get missing: code = %s, want a not-found code", errors.GetCode(err))
	}

	if err := s.Delete(ctx, "missing"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Delete missing: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := testRecord(t)
	_ = s.Save(ctx, rec)

	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreInvalidInput(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"save nil", func() error { return s.Save(ctx, nil) }},
		{"save empty id", func() error { return s.Save(ctx, &Record{}) }},
		{"get bad id", func() error { _, err := s.Get(ctx, "../etc"); return err }},
		{"delete empty id", func() error { return s.Delete(ctx, "") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if !errors.IsInvalid(err) {
				t.Errorf("err = %v, want an invalid-input error", err)
			}
		})
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		_ = s.Save(ctx, &Record{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"all newest first", 10, []string{"c", "b", "a"}},
		{"limited", 2, []string{"c", "b"}},
		{"default limit", 0, []string{"c", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.limit)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List returned %d records, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("List[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}
