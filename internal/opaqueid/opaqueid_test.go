package opaqueid

import "testing"

func newCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := New("test-salt")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestRoundTrip(t *testing.T) {
	c := newCodec(t)
	for _, id := range []int64{0, 1, 2, 7, 999, 123456789, 1 << 40} {
		s, err := c.Encode(id)
		if err != nil {
			t.Fatalf("Encode(%d): %v", id, err)
		}
		got, err := c.Decode(s)
		if err != nil {
			t.Fatalf("Decode(%q): %v", s, err)
		}
		if got != id {
			t.Fatalf("round trip: Decode(Encode(%d)) = %d", id, got)
		}
	}
}

func TestEncode_Injective(t *testing.T) {
	c := newCodec(t)
	seen := make(map[string]int64)
	for id := int64(0); id < 2000; id++ {
		s, err := c.Encode(id)
		if err != nil {
			t.Fatalf("Encode(%d): %v", id, err)
		}
		if prev, dup := seen[s]; dup {
			t.Fatalf("collision: %d and %d both encode to %q", prev, id, s)
		}
		seen[s] = id
	}
}

func TestDecode_RejectsGarbage(t *testing.T) {
	c := newCodec(t)
	for _, s := range []string{"", "!!!", "not an id at all"} {
		if _, err := c.Decode(s); err == nil {
			t.Fatalf("Decode(%q): expected error", s)
		}
	}
}

func TestEncode_RejectsNegative(t *testing.T) {
	c := newCodec(t)
	if _, err := c.Encode(-1); err == nil {
		t.Fatalf("Encode(-1): expected error")
	}
}

func TestSaltChangesEncoding(t *testing.T) {
	a := newCodec(t)
	b, err := New("other-salt")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sa, _ := a.Encode(42)
	sb, _ := b.Encode(42)
	if sa == sb {
		t.Fatalf("different salts produced identical encodings: %q", sa)
	}
}
