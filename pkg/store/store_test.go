package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lineplanner/pkg/errors"
	"github.com/matzehuels/lineplanner/pkg/line"
)

func testRecord(id string, created time.Time) *line.Record {
	ops := []line.Operation{
		{OpNo: "1", OpName: "Run collar", MachineType: "SNLS", SMV: 0.6, Section: "Collar"},
		{OpNo: "2", OpName: "Trim", MachineType: "SNEC", SMV: 0.4, Section: "Collar"},
	}
	return &line.Record{
		ID:         id,
		LineNo:     "L-04",
		StyleNo:    "ST-220",
		ConeNo:     "CN-9",
		CreatedAt:  created,
		UpdatedAt:  created,
		Operations: ops,
		MachineLayout: []line.MachineInstance{{
			ID:           "C-1-0-abc",
			Operation:    ops[0],
			Position:     line.Vec3{X: 1.6, Z: 0.75},
			Rotation:     line.Vec3{Y: 3.14159},
			Lane:         line.LaneC,
			Section:      "Collar",
			MachineIndex: 0,
		}},
		TotalSMV:     1.0,
		TargetOutput: 1000,
		WorkingHours: 8,
	}
}

// runStoreTests exercises the Store contract against one backend.
func runStoreTests(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("GetMissing", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		require.True(t, errors.Is(err, errors.ErrCodeLineNotFound), "got %v", err)
	})

	t.Run("SaveAndGet", func(t *testing.T) {
		in := testRecord("rec-1", base)
		require.NoError(t, s.Save(ctx, in))

		out, err := s.Get(ctx, "rec-1")
		require.NoError(t, err)
		require.Equal(t, in.LineNo, out.LineNo)
		require.Equal(t, in.StyleNo, out.StyleNo)
		require.Equal(t, in.ConeNo, out.ConeNo)
		require.Equal(t, in.Operations, out.Operations)
		require.Len(t, out.MachineLayout, 1)
		require.Equal(t, line.LaneC, out.MachineLayout[0].Lane)
		require.InDelta(t, 0.75, out.MachineLayout[0].Position.Z, 1e-9)
		require.True(t, in.CreatedAt.Equal(out.CreatedAt))
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		r := testRecord("rec-1", base)
		r.TargetOutput = 600
		r.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, s.Save(ctx, r))

		out, err := s.Get(ctx, "rec-1")
		require.NoError(t, err)
		require.Equal(t, 600, out.TargetOutput)
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, testRecord("rec-2", base.Add(2*time.Hour))))
		require.NoError(t, s.Save(ctx, testRecord("rec-3", base.Add(time.Hour))))

		list, err := s.List(ctx)
		require.NoError(t, err)
		ids := make([]string, len(list))
		for i, r := range list {
			ids[i] = r.ID
		}
		require.Equal(t, []string{"rec-2", "rec-3", "rec-1"}, ids)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "rec-3"))
		_, err := s.Get(ctx, "rec-3")
		require.True(t, errors.Is(err, errors.ErrCodeLineNotFound))

		err = s.Delete(ctx, "rec-3")
		require.True(t, errors.Is(err, errors.ErrCodeLineNotFound))
	})

	t.Run("InvalidRecord", func(t *testing.T) {
		require.Error(t, s.Save(ctx, nil))
		require.Error(t, s.Save(ctx, testRecord("", base)))
	})
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()
	runStoreTests(t, s)
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "../etc/passwd")
	require.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	require.Error(t, s.Save(context.Background(), testRecord("../x", time.Now())))
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, testRecord("good", time.Now())))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o600))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "good", list[0].ID)
}

func TestFileStoreConcurrentSaves(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	// Separate instances share only the lock file, like separate processes.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := NewFileStore(dir)
			if err != nil {
				t.Error(err)
				return
			}
			r := testRecord("rec-"+string(rune('a'+i)), time.Now())
			if err := s.Save(ctx, r); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 8)
}

func TestFileStoreSharedInstanceExcludesWriters(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	unlock, err := s.acquire(ctx, true)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := s.acquire(ctx, true)
		if err != nil {
			t.Error(err)
			close(acquired)
			return
		}
		close(acquired)
		second()
	}()

	select {
	case <-acquired:
		t.Fatal("second writer acquired the lock while the first held it")
	case <-time.After(100 * time.Millisecond):
	}
	unlock()
	select {
	case <-acquired:
	case <-time.After(lockTimeout):
		t.Fatal("second writer never acquired the lock")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := testRecord("shared", time.Now().Add(time.Duration(i)*time.Second))
			if err := s.Save(ctx, r); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()
	got, err := s.Get(ctx, "shared")
	require.NoError(t, err)
	require.Equal(t, "shared", got.ID)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "db", "lines.db"))
	require.NoError(t, err)
	defer s.Close()
	runStoreTests(t, s)
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lines.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, testRecord("persisted", time.Now())))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	r, err := s.Get(ctx, "persisted")
	require.NoError(t, err)
	require.Equal(t, "L-04", r.LineNo)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("LINEPLANNER_TEST_MONGO")
	if uri == "" {
		t.Skip("LINEPLANNER_TEST_MONGO not set")
	}
	ctx := context.Background()
	db := "lineplanner_test_" + time.Now().Format("20060102150405")
	s, err := NewMongoStore(ctx, uri, db)
	require.NoError(t, err)
	defer func() {
		_ = s.client.Database(db).Drop(ctx)
		s.Close()
	}()
	runStoreTests(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendFile, Dir: t.TempDir()})
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, s)

	s, err = Open(ctx, Config{Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, s)
	s.Close()

	_, err = Open(ctx, Config{Backend: "etcd"})
	require.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}
