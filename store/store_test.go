package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambeau/unitconv/pkg/units"
	uerrors "github.com/sambeau/unitconv/pkg/units/errors"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.db")
	s, err := Open(context.Background(), "sqlite", path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, &uerrors.UnitError{Code: code})
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "oracle", "whatever")
	assert.ErrorContains(t, err, "unsupported store driver")

	_, err = Open(ctx, "sqlite", "")
	assert.ErrorContains(t, err, "dsn is required")
}

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Save(ctx, "p1", units.Time, "seconds")
	require.NoError(t, err)
	prefs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, prefs, 1)
}

func TestSave_And_Get(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	saved, err := s.Save(ctx, "cpu-panel", units.Time, "milliseconds")
	require.NoError(t, err)
	_, err = uuid.Parse(saved.ID)
	assert.NoError(t, err, "id should be a uuid")
	assert.Equal(t, units.Time, saved.Category)
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)

	got, err := s.Get(ctx, "cpu-panel")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "milliseconds", got.Unit)
	assert.Equal(t, units.Time, got.Category)
	assert.WithinDuration(t, saved.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestSave_InfersCategory(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	saved, err := s.Save(ctx, "net", "", "gigabitsPerSecSI")
	require.NoError(t, err)
	assert.Equal(t, units.DataRate, saved.Category)
}

func TestSave_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first, err := s.Save(ctx, "mem", units.Data, "bytesIEC")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := s.Save(ctx, "mem", units.Data, "gibibytes")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "id is stable across updates")
	assert.WithinDuration(t, first.CreatedAt, second.CreatedAt, time.Millisecond)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	prefs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, "gibibytes", prefs[0].Unit)
}

func TestSave_Validation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	tests := []struct {
		name     string
		panel    string
		category units.CategoryName
		unit     string
		code     string
	}{
		{"empty panel", "", units.Time, "seconds", "PREF-0002"},
		{"blank panel", "   ", units.Time, "seconds", "PREF-0002"},
		{"empty unit", "p", units.Time, "", "UNIT-0006"},
		{"unknown category", "p", "Tmie", "seconds", "CAT-0001"},
		{"unit outside category", "p", units.Data, "seconds", "PREF-0001"},
		{"unknown unit inferred", "p", "", "parsecs", "UNIT-0001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Save(ctx, tt.panel, tt.category, tt.unit)
			requireCode(t, err, tt.code)
		})
	}

	prefs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, prefs, "rejected preferences are not stored")
}

func TestGet_Missing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	requireCode(t, err, "PREF-0003")
}

func TestList_OrderedByPanel(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, p := range []string{"c", "a", "b"} {
		_, err := s.Save(ctx, p, units.Time, "seconds")
		require.NoError(t, err)
	}

	prefs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, prefs, 3)
	assert.Equal(t, "a", prefs[0].Panel)
	assert.Equal(t, "b", prefs[1].Panel)
	assert.Equal(t, "c", prefs[2].Panel)
}

func TestList_Empty(t *testing.T) {
	prefs, err := openTestStore(t).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, prefs)
	assert.Empty(t, prefs)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Save(ctx, "p", units.Time, "hours")
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "p"))

	_, err = s.Get(ctx, "p")
	requireCode(t, err, "PREF-0003")
	requireCode(t, s.Delete(ctx, "p"), "PREF-0003")
}

func TestAudit(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	// write with the full registry
	s, err := Open(ctx, "sqlite", path)
	require.NoError(t, err)
	for _, p := range []struct {
		panel    string
		category units.CategoryName
		unit     string
	}{
		{"ok", units.Time, "seconds"},
		{"moved", units.Data, "kibibytes"},
		{"gone", units.Time, "hours"},
		{"renamed-category", units.DataRate, "bytesPerSecIEC"},
	} {
		_, err := s.Save(ctx, p.panel, p.category, p.unit)
		require.NoError(t, err)
	}
	require.NoError(t, s.Close())

	// read back against a registry where units have moved
	r := units.NewRegistry([]units.Category{
		{Name: units.Time, Units: []units.Unit{{ID: "seconds", Label: "seconds"}, {ID: "kibibytes", Label: "kibibytes"}}},
		{Name: units.Data, Units: []units.Unit{{ID: "bytesIEC", Label: "bytes"}}},
		{Name: units.Throughput, Units: []units.Unit{{ID: "bytesPerSecIEC", Label: "bytes/sec"}}},
	})
	s, err = Open(ctx, "sqlite", path, WithRegistry(r))
	require.NoError(t, err)
	defer s.Close()

	entries, err := s.Audit(ctx)
	require.NoError(t, err)

	byPanel := map[string]AuditEntry{}
	for _, e := range entries {
		byPanel[e.Panel] = e
	}
	require.Len(t, byPanel, 3)
	assert.NotContains(t, byPanel, "ok")

	assert.Equal(t, "unit not in category", byPanel["moved"].Reason)
	assert.Equal(t, units.Time, byPanel["moved"].Current)

	assert.Equal(t, "unknown unit", byPanel["gone"].Reason)
	assert.Empty(t, byPanel["gone"].Current)

	assert.Equal(t, "unknown category", byPanel["renamed-category"].Reason)
	assert.Equal(t, units.Throughput, byPanel["renamed-category"].Current)
}

func TestRebind(t *testing.T) {
	q := "UPDATE t SET a = ?, b = ? WHERE id = ?"

	assert.Equal(t, q, (&Store{driver: "sqlite"}).rebind(q))
	assert.Equal(t, q, (&Store{driver: "mysql"}).rebind(q))
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE id = $3", (&Store{driver: "postgres"}).rebind(q))
}
