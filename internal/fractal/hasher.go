package fractal

import (
	"encoding/base32"
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/tsukuyomi/internal/model"
)

// tokenBytes is the number of digest bytes encoded into a token.
// 20 bytes (160 bits) encode to exactly 32 base32 characters and leave
// guessing a sibling token computationally infeasible.
const tokenBytes = 20

// tokenEncoding is the lowercase base32 alphabet without padding.
// It mirrors the alphabet of v3 onion addresses so trap URLs read like the
// opaque identifiers crawlers already encounter, and it is URL-safe without
// any escaping.
var tokenEncoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// Digest computes the one-way digest used everywhere identity must be
// derived without being invertible or guessable.
//
// Design decision: We use SHA3-256 as the single stable hash for all
// derivation and position-mixing. A runtime-seeded general-purpose hash would
// produce different graphs across restarts, which breaks the requirement
// that the same request always yields the same response.
func Digest(material string) [32]byte {
	return sha3.Sum256([]byte(material))
}

// encodeToken encodes the leading bytes of a digest as a URL-safe token.
func encodeToken(sum [32]byte) model.Token {
	return model.Token(tokenEncoding.EncodeToString(sum[:tokenBytes]))
}

// fraction maps a digest onto a float in [0, 1).
// The leading 8 bytes are interpreted as a big-endian integer and scaled.
// Used for coordinate offsets and delay selection, where a stable
// pseudo-random value per token is needed.
func fraction(sum [32]byte) float64 {
	v := binary.BigEndian.Uint64(sum[:8])
	return float64(v) / float64(1<<63) / 2
}
