package store

import (
	"context"
	"testing"

	"github.com/rcliao/arsip-kita/internal/model"
)

func TestExportAllOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, mem("b", "second", 2000))
	s.Put(ctx, mem("a", "first", 1000))

	all, err := s.ExportAll(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(all) != 2 || all[0].ID != "a" || all[1].ID != "b" {
		t.Errorf("expected [a b], got %+v", all)
	}
}

func TestImportSkipsInvalid(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	bad := mem("bad", "", 3000)
	res, err := s.Import(ctx, []model.Memory{
		mem("a", "one", 1000),
		mem("b", "two", 2000),
		bad,
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 1 {
		t.Errorf("expected 2 imported / 1 skipped, got %+v", res)
	}
	if len(res.Errors) != 1 {
		t.Errorf("expected 1 error message, got %v", res.Errors)
	}

	got, _ := s.List(ctx)
	if len(got) != 2 {
		t.Errorf("expected 2 stored, got %d", len(got))
	}
}

func TestImportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	batch := []model.Memory{mem("a", "one", 1000)}
	s.Import(ctx, batch)
	s.Import(ctx, batch)

	got, _ := s.List(ctx)
	if len(got) != 1 {
		t.Errorf("expected 1 after re-import, got %d", len(got))
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := mem("a", "one", 1000)
	a.Author = "Ana"
	b := mem("b", "two", 2000)
	b.Author = "Ana"
	c := mem("c", "three", 3000)
	c.Mood = model.MoodSad
	c.Color = model.MoodSad.Color()
	s.Put(ctx, a)
	s.Put(ctx, b)
	s.Put(ctx, c)

	st, err := s.Stats(ctx, "unused.db")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalMemories != 3 {
		t.Errorf("expected 3 total, got %d", st.TotalMemories)
	}
	if st.Authors != 1 {
		t.Errorf("expected 1 distinct author, got %d", st.Authors)
	}
	if len(st.Moods) != 2 || st.Moods[0].Mood != "neutral" || st.Moods[0].Count != 2 {
		t.Errorf("unexpected mood breakdown: %+v", st.Moods)
	}
}

func TestStatsReportsQueryErrors(t *testing.T) {
	s := newTestStore(t)
	s.Close()

	st, err := s.Stats(context.Background(), "unused.db")
	if err == nil {
		t.Fatalf("expected error from closed store, got %+v", st)
	}
	if st != nil {
		t.Errorf("expected no partial stats, got %+v", st)
	}
}
