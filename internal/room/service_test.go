package room

import (
	"strings"
	"testing"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		code := generateCode()

		if len(code) != codeLength {
			t.Fatalf("generateCode() = %q, want %d characters", code, codeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("generateCode() = %q contains %q, not in alphabet", code, c)
			}
		}
		seen[code] = true
	}

	// 1000 draws from a 32^6 space should essentially never collide; a
	// single repeated code is fine, but most being identical means the
	// generator is broken.
	if len(seen) < 990 {
		t.Errorf("generated only %d distinct codes out of 1000", len(seen))
	}
}

func TestCodeAlphabetIsUnambiguous(t *testing.T) {
	for _, c := range "IO01" {
		if strings.ContainsRune(codeAlphabet, c) {
			t.Errorf("alphabet contains ambiguous character %q", c)
		}
	}
}
