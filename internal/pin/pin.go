// Package pin implements the PIN-grid two-factor sub-protocol: the server
// hands the client a shuffled 10-cell digit arrangement (the "grid"), and
// the client proves knowledge of its PIN by hashing the PIN digits as they
// appear positioned on that grid, salted on both sides.
package pin

import (
	"crypto/rand"
	"crypto/sha1"
	"fmt"
	mathrand "math/rand/v2"
)

// SaltLen is the width in bytes of both the server and client PIN salts.
const SaltLen = 16

// GridSize is the number of cells in a PIN grid (digits 0-9, one cell
// each).
const GridSize = 10

// NewGridSeed draws the seed used to shuffle the PIN grid. When randomize
// is true a fresh random seed is drawn per challenge; otherwise the seed is
// zero, matching the configuration option in config.RandomizePinGrid.
func NewGridSeed(randomize bool) uint64 {
	if !randomize {
		return 0
	}
	return mathrand.Uint64()
}

// Grid returns the digit-to-cell-index mapping for a given seed: grid[d] is
// the cell position digit d is shuffled into.
func Grid(seed uint64) [GridSize]byte {
	var grid [GridSize]byte
	for i := range grid {
		grid[i] = byte(i)
	}
	rng := mathrand.New(mathrand.NewPCG(seed, seed))
	rng.Shuffle(GridSize, func(i, j int) {
		grid[i], grid[j] = grid[j], grid[i]
	})
	return grid
}

// NewSalt draws a fresh random salt for one side of the exchange.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("pin: drawing salt: %w", err)
	}
	return salt, nil
}

// Hash computes the salted PIN-grid hash: SHA-1(serverSalt | clientSalt |
// gridPositions), where gridPositions is the PIN's digits mapped through
// the grid for the given seed.
func Hash(pinDigits string, seed uint64, serverSalt, clientSalt []byte) []byte {
	grid := Grid(seed)

	positioned := make([]byte, len(pinDigits))
	for i := 0; i < len(pinDigits); i++ {
		d := pinDigits[i] - '0'
		positioned[i] = grid[d]
	}

	h := sha1.New()
	h.Write(serverSalt)
	h.Write(clientSalt)
	h.Write(positioned)
	return h.Sum(nil)
}

// Verify checks a client-supplied PIN hash against the account's stored
// PIN.
func Verify(storedPIN string, seed uint64, serverSalt, clientSalt, clientHash []byte) bool {
	expected := Hash(storedPIN, seed, serverSalt, clientSalt)
	if len(expected) != len(clientHash) {
		return false
	}
	var diff byte
	for i := range expected {
		diff |= expected[i] ^ clientHash[i]
	}
	return diff == 0
}
