// Package opaqueid obfuscates internal numeric primary keys into short
// strings safe to expose at the public API boundary, and reverses them on
// the way in. Encoding is a deterministic, reversible bijection over
// non-negative integers; it hides ids from casual inspection but carries no
// security guarantee and must never stand in for an access check.
package opaqueid

import (
	"fmt"

	hashids "github.com/speps/go-hashids/v2"
)

// Codec encodes and decodes entity ids. Safe for concurrent use.
type Codec struct {
	h *hashids.HashID
}

// New builds a Codec keyed on salt. Two codecs with the same salt produce
// identical encodings, so the salt must stay stable for the lifetime of the
// stored data's external references.
func New(salt string) (*Codec, error) {
	data := hashids.NewData()
	data.Salt = salt
	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("opaqueid: init codec: %w", err)
	}
	return &Codec{h: h}, nil
}

// Encode turns a non-negative id into its opaque string form.
func (c *Codec) Encode(id int64) (string, error) {
	if id < 0 {
		return "", fmt.Errorf("opaqueid: cannot encode negative id %d", id)
	}
	return c.h.EncodeInt64([]int64{id})
}

// MustEncode is Encode for ids known to be valid (database primary keys).
// It panics on failure, which only happens for negative input.
func (c *Codec) MustEncode(id int64) string {
	s, err := c.Encode(id)
	if err != nil {
		panic(err)
	}
	return s
}

// Decode reverses Encode. It fails when s is not a validly formatted
// encoding produced with the same salt.
func (c *Codec) Decode(s string) (int64, error) {
	ids, err := c.h.DecodeInt64WithError(s)
	if err != nil {
		return 0, fmt.Errorf("opaqueid: decode %q: %w", s, err)
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("opaqueid: decode %q: expected a single id, got %d", s, len(ids))
	}
	return ids[0], nil
}
