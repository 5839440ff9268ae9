// Package engine implements deterministic coordinate-hashed prompt generation.
//
// SYSTEM ARCHITECTURE ROLE:
// This module is the generation core of the system. It maps a (seed, index, slot)
// coordinate to a selection inside a profile's template list and phrase pools, and
// composes the selections into a finished edit prompt. Every function here is pure:
// no shared state, no I/O, no randomness beyond the frozen hash.
//
// KEY RESPONSIBILITIES:
// - Hash coordinates to uniformly distributed 32-bit values (CoordHash)
// - Reduce hashes to list indices by remainder (Select)
// - Compose one prompt from a profile at a coordinate (Compose)
// - Produce ordered batches across consecutive indices (ComposeRange)
//
// INTEGRATION POINTS:
// - internal/models: read-only Profile accessors supply templates and pools
// - internal/errors: structural and argument failures surface as AppErrors
// - internal/service/service.go: GenerateOne/GenerateBatch call into this package
// - cmd/profile-lint: sample output preview uses Compose directly
//
// The same (seed, index, profile) triple must produce the identical prompt on
// any machine, forever. Changing any constant, byte order, or slot assignment
// rule in this package silently replaces the entire universe of prompts users
// already rely on.
package engine

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// CoordHash maps one (seed, index, slot) coordinate to a 32-bit value.
//
// Frozen wire contract: the coordinate is serialized as a 16-byte
// little-endian block, seed (4 bytes) then index (8 bytes) then slot
// (4 bytes), hashed with XXH64 (seed 0), and truncated to the low 32 bits.
// This layout is load-bearing for reproducibility and must never change.
func CoordHash(seed uint32, index uint64, slot uint32) uint32 {
	var buf [16]byte
	binary.LittleEndian.PutUint32(buf[0:4], seed)
	binary.LittleEndian.PutUint64(buf[4:12], index)
	binary.LittleEndian.PutUint32(buf[12:16], slot)
	return uint32(xxhash.Sum64(buf[:]))
}
