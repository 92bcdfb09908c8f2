package evaluator

import (
	"hash/crc32"
)

// Bucket deterministically maps an identifier to a bucket in [0, precision).
// It is a pure function of (identifier, salt, precision): the same triple
// yields the same bucket across processes and over time, which is what makes
// a rollout sticky without per-identifier state. The underlying hash
// (CRC32-IEEE of identifier+salt) is part of the contract and must never
// change.
func Bucket(identifier, salt string, precision int) int {
	sum := crc32.ChecksumIEEE([]byte(identifier + salt))
	return int(sum % uint32(precision))
}

// saltOffset hashes a salt into the additive term of the stratified remix.
func saltOffset(salt string) uint64 {
	return uint64(crc32.ChecksumIEEE([]byte(salt)))
}
