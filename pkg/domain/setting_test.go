package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedRules(t *testing.T) {
	s := &Setting{
		Key: "k",
		Rules: []Rule{
			{ID: 5, Priority: 30, Outcome: NewDirect(1)},
			{ID: 2, Priority: 10, Outcome: NewDirect(2)},
			{ID: 1, Priority: 10, Outcome: NewDirect(3)},
			{ID: 9, Priority: 20, Outcome: NewDirect(4)},
		},
	}

	sorted := s.SortedRules()

	ids := make([]int64, len(sorted))
	for i, r := range sorted {
		ids[i] = r.ID
	}
	assert.Equal(t, []int64{1, 2, 9, 5}, ids)

	// Receiver untouched.
	assert.Equal(t, int64(5), s.Rules[0].ID)
}

func TestRule_ActiveAt(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rule Rule
		at   time.Time
		want bool
	}{
		{"no window always active", Rule{}, time.Now(), true},
		{"inside", Rule{StartsAt: &start, EndsAt: &end}, start.Add(24 * time.Hour), true},
		{"boundary start", Rule{StartsAt: &start, EndsAt: &end}, start, true},
		{"boundary end", Rule{StartsAt: &start, EndsAt: &end}, end, true},
		{"before start", Rule{StartsAt: &start}, start.Add(-time.Second), false},
		{"after end", Rule{EndsAt: &end}, end.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.ActiveAt(tt.at))
		})
	}
}

func TestRule_EffectiveSalt(t *testing.T) {
	withSalt := Rule{Salt: "v2"}
	assert.Equal(t, "v2", withSalt.EffectiveSalt("checkout"))

	noSalt := Rule{}
	assert.Equal(t, "checkout", noSalt.EffectiveSalt("checkout"))
}

func TestNewRollout(t *testing.T) {
	_, err := NewRollout()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	rollout, err := NewRollout(Variant{Name: "on", Weight: 10, Value: true})
	require.NoError(t, err)
	assert.Len(t, rollout.Variants, 1)
}

func TestSetting_Validate(t *testing.T) {
	mustRollout := func(variants ...Variant) Rollout {
		r, err := NewRollout(variants...)
		require.NoError(t, err)
		return r
	}

	start := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		setting Setting
		wantErr bool
	}{
		{
			name:    "empty key",
			setting: Setting{},
			wantErr: true,
		},
		{
			name: "valid direct rule",
			setting: Setting{Key: "k", Rules: []Rule{
				{ID: 1, Outcome: NewDirect("v")},
			}},
			wantErr: false,
		},
		{
			name: "rule without outcome",
			setting: Setting{Key: "k", Rules: []Rule{
				{ID: 1},
			}},
			wantErr: true,
		},
		{
			name: "inverted window",
			setting: Setting{Key: "k", Rules: []Rule{
				{ID: 1, StartsAt: &start, EndsAt: &end, Outcome: NewDirect("v")},
			}},
			wantErr: true,
		},
		{
			name: "valid rollout",
			setting: Setting{Key: "k", Rules: []Rule{
				{ID: 1, Outcome: mustRollout(
					Variant{Name: "a", Weight: 30},
					Variant{Name: "b", Weight: 70},
				)},
			}},
			wantErr: false,
		},
		{
			name: "weights exceed precision",
			setting: Setting{Key: "k", Rules: []Rule{
				{ID: 1, Outcome: mustRollout(
					Variant{Name: "a", Weight: 80},
					Variant{Name: "b", Weight: 30},
				)},
			}},
			wantErr: true,
		},
		{
			name: "under-allocated weights are allowed",
			setting: Setting{Key: "k", Rules: []Rule{
				{ID: 1, Outcome: mustRollout(Variant{Name: "a", Weight: 10})},
			}},
			wantErr: false,
		},
		{
			name: "duplicate variant names",
			setting: Setting{Key: "k", Rules: []Rule{
				{ID: 1, Outcome: mustRollout(
					Variant{Name: "a", Weight: 10},
					Variant{Name: "a", Weight: 10},
				)},
			}},
			wantErr: true,
		},
		{
			name: "empty variant name",
			setting: Setting{Key: "k", Rules: []Rule{
				{ID: 1, Outcome: mustRollout(Variant{Weight: 10})},
			}},
			wantErr: true,
		},
		{
			name: "negative weight",
			setting: Setting{Key: "k", Rules: []Rule{
				{ID: 1, Outcome: mustRollout(Variant{Name: "a", Weight: -1})},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setting.Validate(100)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err), "expected a validation error, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
