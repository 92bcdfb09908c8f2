package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumlabs/stratum/pkg/domain"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_RoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	rollout, err := domain.NewRollout(
		domain.Variant{Name: "a", Weight: 30, Value: "va"},
		domain.Variant{Name: "b", Weight: 70, Value: "vb"},
	)
	require.NoError(t, err)

	setting := &domain.Setting{
		Key:          "checkout",
		Kind:         domain.KindString,
		DefaultValue: "default",
		Rules: []domain.Rule{
			{
				ID: 1, Name: "premium", Priority: 10,
				Conditions: []domain.Condition{
					{Type: "user", Attribute: "tier", Operator: domain.OpEquals, Operand: "premium"},
				},
				Outcome: domain.NewDirect("ruled"),
			},
			{ID: 2, Name: "split", Priority: 20, Salt: "v2", Outcome: rollout},
		},
	}

	require.NoError(t, s.Put(ctx, "acme", setting))

	got, err := s.GetSetting(ctx, "acme", "checkout")
	require.NoError(t, err)

	assert.Equal(t, "checkout", got.Key)
	assert.Equal(t, domain.KindString, got.Kind)
	assert.Equal(t, "default", got.DefaultValue)
	require.Len(t, got.Rules, 2)

	direct, ok := got.Rules[0].Outcome.(domain.Direct)
	require.True(t, ok)
	assert.Equal(t, "ruled", direct.Value)
	require.Len(t, got.Rules[0].Conditions, 1)
	assert.Equal(t, domain.OpEquals, got.Rules[0].Conditions[0].Operator)

	decoded, ok := got.Rules[1].Outcome.(domain.Rollout)
	require.True(t, ok)
	require.Len(t, decoded.Variants, 2)
	assert.Equal(t, "v2", got.Rules[1].Salt)
	// JSON numbers decode as float64; weights are restored as ints by the
	// record type.
	assert.Equal(t, 30, decoded.Variants[0].Weight)
}

func TestSQLite_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetSetting(context.Background(), "acme", "nope")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestSQLite_Upsert(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "acme", &domain.Setting{Key: "k", DefaultValue: "v1"}))
	require.NoError(t, s.Put(ctx, "acme", &domain.Setting{Key: "k", DefaultValue: "v2"}))

	got, err := s.GetSetting(ctx, "acme", "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.DefaultValue)
}

func TestSQLite_Delete(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "acme", &domain.Setting{Key: "k", DefaultValue: 1}))
	require.NoError(t, s.Delete(ctx, "acme", "k"))

	_, err := s.GetSetting(ctx, "acme", "k")
	assert.True(t, domain.IsNotFound(err))

	// Deleting an absent key is not an error.
	require.NoError(t, s.Delete(ctx, "acme", "k"))
}

func TestSQLite_PutValidates(t *testing.T) {
	s, err := NewSQLiteWithConfig(SQLiteConfig{
		Path:      filepath.Join(t.TempDir(), "settings.db"),
		Precision: 100,
	})
	require.NoError(t, err)
	defer s.Close()

	rollout, err := domain.NewRollout(
		domain.Variant{Name: "a", Weight: 200},
	)
	require.NoError(t, err)

	err = s.Put(context.Background(), "acme", &domain.Setting{
		Key:   "over",
		Rules: []domain.Rule{{ID: 1, Outcome: rollout}},
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	assert.Error(t, s.Put(context.Background(), "acme", nil))
}

func TestSQLite_Config(t *testing.T) {
	_, err := NewSQLiteWithConfig(SQLiteConfig{})
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestSQLite_CloseIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
