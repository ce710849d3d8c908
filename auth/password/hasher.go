// Package password provides one-way credential hashing and verification.
//
// Two implementations of Hasher are available:
//   - BcryptHasher: bcrypt, the default and the format existing accounts use
//   - Argon2Hasher: argon2id encoded as $argon2id$v=19$m=...,t=...,p=...$salt$hash
//
// Usage:
//
//	hasher := password.NewBcryptHasher()
//	hash, err := hasher.Hash("1234")
//	ok := hasher.Verify("1234", hash)
package password

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrTooLong is returned by BcryptHasher for secrets over 72 bytes.
var ErrTooLong = errors.New("password: maximum length is 72 bytes (bcrypt limit)")

// Hasher hashes secrets and verifies them against stored hashes.
// Implementations are safe for concurrent use.
type Hasher interface {
	// Hash returns a salted, algorithm-tagged hash of the secret.
	Hash(secret string) (string, error)

	// Verify reports whether secret matches hash. A malformed hash yields false.
	Verify(secret, hash string) bool
}

// --- Bcrypt Implementation ---

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// BcryptOption configures the bcrypt hasher.
type BcryptOption func(*BcryptHasher)

// WithCost sets the bcrypt cost parameter (default: 12, range: 4-31).
func WithCost(cost int) BcryptOption {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// NewBcryptHasher creates a bcrypt-based password hasher.
func NewBcryptHasher(opts ...BcryptOption) *BcryptHasher {
	h := &BcryptHasher{cost: DefaultBcryptCost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	if len(secret) > 72 {
		return "", ErrTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: bcrypt: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// --- Argon2id Implementation ---

// Argon2Hasher implements Hasher using argon2id.
type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// Argon2Option configures the argon2id hasher.
type Argon2Option func(*Argon2Hasher)

// WithArgon2Time sets the number of iterations (default: 1).
func WithArgon2Time(t uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.time = t }
}

// WithArgon2Memory sets the memory usage in KiB (default: 64*1024).
func WithArgon2Memory(m uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.memory = m }
}

// WithArgon2Threads sets the parallelism (default: 4).
func WithArgon2Threads(t uint8) Argon2Option {
	return func(h *Argon2Hasher) { h.threads = t }
}

// NewArgon2Hasher creates an argon2id-based password hasher.
func NewArgon2Hasher(opts ...Argon2Option) *Argon2Hasher {
	h := &Argon2Hasher{
		time:    1,
		memory:  64 * 1024,
		threads: 4,
		keyLen:  32,
		saltLen: 16,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

const argon2Prefix = "$argon2id$"

func (h *Argon2Hasher) Hash(secret string) (string, error) {
	salt, err := generateRandomBytes(h.saltLen)
	if err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(secret), salt, h.time, h.memory, h.threads, h.keyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version,
		h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether secret matches encoded. Stored parameters above
// the hasher's limits are treated as malformed and never reach argon2.
func (h *Argon2Hasher) Verify(secret, encoded string) bool {
	p, ok := parseArgon2(encoded)
	if !ok || !h.withinLimits(p) {
		return false
	}
	key := argon2.IDKey([]byte(secret), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(key, p.key) == 1
}

// Bounds on parameters read back from a stored hash.
const (
	maxArgon2Memory  = 1 << 20 // KiB, 1 GiB
	maxArgon2Time    = 10
	minArgon2KeyLen  = 16
	maxArgon2KeyLen  = 64
	minArgon2SaltLen = 8
	maxArgon2SaltLen = 64
)

// withinLimits caps memory at four times the configured cost and never
// above maxArgon2Memory.
func (h *Argon2Hasher) withinLimits(p argon2Params) bool {
	memLimit := uint64(h.memory) * 4
	if memLimit > maxArgon2Memory {
		memLimit = maxArgon2Memory
	}
	switch {
	case uint64(p.memory) > memLimit:
		return false
	case p.time > maxArgon2Time:
		return false
	case len(p.key) < minArgon2KeyLen, len(p.key) > maxArgon2KeyLen:
		return false
	case len(p.salt) < minArgon2SaltLen, len(p.salt) > maxArgon2SaltLen:
		return false
	}
	return true
}

type argon2Params struct {
	memory, time uint32
	threads      uint8
	salt, key    []byte
}

func parseArgon2(encoded string) (argon2Params, bool) {
	var p argon2Params
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, false
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, false
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, false
	}
	if p.time == 0 || p.threads == 0 {
		return p, false
	}
	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return p, false
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.key) == 0 {
		return p, false
	}
	return p, true
}

// --- Algorithm-agnostic verification ---

// MultiHasher hashes with a primary Hasher and verifies any supported
// format by inspecting the hash prefix, so stored bcrypt hashes keep
// verifying after switching to argon2id and vice versa.
type MultiHasher struct {
	primary Hasher
	bcrypt  Hasher
	argon2  Hasher
}

// NewVerifier wraps primary in a MultiHasher.
func NewVerifier(primary Hasher) *MultiHasher {
	return &MultiHasher{
		primary: primary,
		bcrypt:  NewBcryptHasher(),
		argon2:  NewArgon2Hasher(),
	}
}

func (m *MultiHasher) Hash(secret string) (string, error) {
	return m.primary.Hash(secret)
}

func (m *MultiHasher) Verify(secret, hash string) bool {
	switch {
	case strings.HasPrefix(hash, argon2Prefix):
		return m.argon2.Verify(secret, hash)
	case strings.HasPrefix(hash, "$2"):
		return m.bcrypt.Verify(secret, hash)
	default:
		return false
	}
}
