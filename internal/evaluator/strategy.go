package evaluator

import (
	"github.com/stratumlabs/stratum/pkg/domain"
)

// shuffleMultiplier is the reference multiplier for the stratified remix,
// Knuth's multiplicative-hash constant. It is coprime with the default
// precision; NewStratified adjusts it for precisions where it is not.
const shuffleMultiplier = 2654435761

// Strategy maps a bucket to a rollout variant. Both implementations return
// nil on an empty variant set and when the weights leave the bucket's range
// uncovered (an under-100% rollout falls through to the setting default).
type Strategy interface {
	FindVariant(variants []domain.Variant, salt string, precision, bucket int) *domain.Variant
}

// Cumulative is the default strategy: walk the variants in creation order,
// keeping a running weight sum, and return the first variant whose
// cumulative upper bound exceeds the bucket. Simple, but per-variant counts
// are only proportional in expectation when weights churn over a rollout's
// lifetime.
type Cumulative struct{}

// NewCumulative creates the cumulative-weight strategy.
func NewCumulative() Cumulative {
	return Cumulative{}
}

func (Cumulative) FindVariant(variants []domain.Variant, _ string, _, bucket int) *domain.Variant {
	return walkCumulative(variants, bucket)
}

// Stratified guarantees that exactly `weight` buckets map to each variant by
// remixing the bucket through a bijection of [0, precision) before the
// cumulative walk: shuffled = (bucket*multiplier + hash(salt)) mod precision.
// The remix changes only when the rule's salt changes; regenerating the salt
// re-buckets every identifier for that rule.
type Stratified struct {
	multiplier uint64
}

// NewStratified derives a multiplier coprime with the configured precision
// so the remix stays a permutation for any precision, not only the default.
func NewStratified(precision int) Stratified {
	m := uint64(shuffleMultiplier)
	for gcd(m, uint64(precision)) != 1 {
		m++
	}
	return Stratified{multiplier: m}
}

func (s Stratified) FindVariant(variants []domain.Variant, salt string, precision, bucket int) *domain.Variant {
	shuffled := int((uint64(bucket)*s.multiplier + saltOffset(salt)) % uint64(precision))
	return walkCumulative(variants, shuffled)
}

func walkCumulative(variants []domain.Variant, bucket int) *domain.Variant {
	cumulative := 0
	for i := range variants {
		cumulative += variants[i].Weight
		if bucket < cumulative {
			return &variants[i]
		}
	}
	return nil
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
