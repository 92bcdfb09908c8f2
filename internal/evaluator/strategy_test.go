package evaluator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumlabs/stratum/pkg/domain"
)

func abVariants(a, b int) []domain.Variant {
	return []domain.Variant{
		{Name: "A", Weight: a, Value: "a"},
		{Name: "B", Weight: b, Value: "b"},
	}
}

func TestCumulative_FindVariant(t *testing.T) {
	s := NewCumulative()
	variants := abVariants(30, 70)

	tests := []struct {
		name   string
		bucket int
		want   string
	}{
		{"first bucket", 0, "A"},
		{"last bucket of first variant", 29, "A"},
		{"first bucket of second variant", 30, "B"},
		{"last covered bucket", 99, "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := s.FindVariant(variants, "salt", 100, tt.bucket)
			require.NotNil(t, v)
			assert.Equal(t, tt.want, v.Name)
		})
	}

	t.Run("uncovered remainder", func(t *testing.T) {
		partial := abVariants(10, 20)
		assert.Nil(t, s.FindVariant(partial, "salt", 100, 30))
		assert.Nil(t, s.FindVariant(partial, "salt", 100, 99))
	})

	t.Run("empty variants", func(t *testing.T) {
		assert.Nil(t, s.FindVariant(nil, "salt", 100, 0))
	})
}

func TestStratified_Bijection(t *testing.T) {
	// The remix must be a permutation of [0, precision): every bucket maps
	// to a distinct shuffled bucket. Checked exhaustively over small
	// precisions, even and prime.
	for _, precision := range []int{100, 97, 761} {
		t.Run(fmt.Sprintf("precision %d", precision), func(t *testing.T) {
			s := NewStratified(precision)

			all := []domain.Variant{{Name: "all", Weight: precision, Value: true}}
			seen := make(map[int]bool, precision)

			for bucket := 0; bucket < precision; bucket++ {
				shuffled := int((uint64(bucket)*s.multiplier + saltOffset("salt")) % uint64(precision))
				assert.False(t, seen[shuffled], "bucket collision at %d", bucket)
				seen[shuffled] = true

				require.NotNil(t, s.FindVariant(all, "salt", precision, bucket))
			}

			assert.Len(t, seen, precision)
		})
	}
}

func TestStratified_ExactCounts(t *testing.T) {
	// Stratification is the whole point: exactly `weight` buckets land on
	// each variant, for any salt.
	precision := 100
	s := NewStratified(precision)
	variants := abVariants(30, 70)

	for _, salt := range []string{"salt-a", "salt-b", "checkout"} {
		counts := map[string]int{}
		for bucket := 0; bucket < precision; bucket++ {
			v := s.FindVariant(variants, salt, precision, bucket)
			require.NotNil(t, v)
			counts[v.Name]++
		}
		assert.Equal(t, 30, counts["A"], "salt %s", salt)
		assert.Equal(t, 70, counts["B"], "salt %s", salt)
	}
}

func TestStratified_UncoveredRemainder(t *testing.T) {
	precision := 100
	s := NewStratified(precision)
	variants := abVariants(10, 20)

	covered := 0
	for bucket := 0; bucket < precision; bucket++ {
		if s.FindVariant(variants, "salt", precision, bucket) != nil {
			covered++
		}
	}
	assert.Equal(t, 30, covered)
}

func TestNewStratified_CoprimeMultiplier(t *testing.T) {
	for _, precision := range []int{100, 100_000, 761, 97} {
		s := NewStratified(precision)
		assert.Equal(t, uint64(1), gcd(s.multiplier, uint64(precision)),
			"multiplier %d not coprime with precision %d", s.multiplier, precision)
	}
}
