package relay

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewSource_RejectsEmpty(t *testing.T) {
	_, err := NewSource("")
	if !errors.Is(err, ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
}

func TestSource_Read(t *testing.T) {
	src, err := NewSource("abcdef")
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	cases := []struct {
		name  string
		start int
		count int
		want  string
	}{
		{"from start", 0, 2, "ab"},
		{"middle", 2, 3, "cde"},
		{"wrap once", 4, 4, "efab"},
		{"start beyond length", 7, 2, "bc"},
		{"count equals length", 0, 6, "abcdef"},
		{"count exceeds length", 5, 8, "fabcdefa"},
		{"count twice length", 0, 12, "abcdefabcdef"},
		{"negative start normalized", -1, 2, "fa"},
		{"zero count", 3, 0, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := src.Read(tc.start, tc.count)
			if string(got) != tc.want {
				t.Fatalf("Read(%d, %d) = %q; want %q", tc.start, tc.count, got, tc.want)
			}
		})
	}
}

func TestSource_Read_Idempotent(t *testing.T) {
	src, _ := NewSource("abc")

	first := src.Read(2, 5)
	second := src.Read(2, 5)
	if !bytes.Equal(first, second) {
		t.Fatalf("same (start, count) produced %q then %q", first, second)
	}

	// Returned slices are independent copies: mutating one must not leak
	// into the source or later reads.
	first[0] = 'x'
	third := src.Read(2, 5)
	if !bytes.Equal(second, third) {
		t.Fatalf("mutating a returned slice changed later reads: %q vs %q", second, third)
	}
}

func TestSource_SingleCharacter(t *testing.T) {
	src, _ := NewSource("z")
	if got := src.Read(0, 4); string(got) != "zzzz" {
		t.Fatalf("Read over single-char source = %q; want zzzz", got)
	}
}
