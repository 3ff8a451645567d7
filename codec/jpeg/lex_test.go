/*
NAME
  lex_test.go

DESCRIPTION
  lex_test.go provides testing for the lexer in lex.go.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/utils/logging"
)

var full = []byte{
	0xff, 0xd8, 'f', 'u', 'l', 'l', 0xff, 0xd9,
	0xff, 0xd8, 'f', 'r', 'a', 'm', 'e', 0xff, 0xd9,
	0xff, 0xd8, 'w', 'i', 't', 'h', 0xff, 0xd9,
	0xff, 0xd8, 'l', 'e', 'n', 'g', 't', 'h', 0xff, 0xd9,
	0xff, 0xd8, 's', 'p', 'r', 'e', 'a', 'd', 0xff, 0xd9,
}

var fullWant = [][]byte{
	{0xff, 0xd8, 'f', 'u', 'l', 'l', 0xff, 0xd9},
	{0xff, 0xd8, 'f', 'r', 'a', 'm', 'e', 0xff, 0xd9},
	{0xff, 0xd8, 'w', 'i', 't', 'h', 0xff, 0xd9},
	{0xff, 0xd8, 'l', 'e', 'n', 'g', 't', 'h', 0xff, 0xd9},
	{0xff, 0xd8, 's', 'p', 'r', 'e', 'a', 'd', 0xff, 0xd9},
}

var lexTests = []struct {
	name  string
	input []byte
	want  [][]byte
	err   error
}{
	{
		name: "empty",
		err:  io.EOF,
	},
	{
		name:  "null",
		input: []byte{0xff, 0xd8, 0xff, 0xd9},
		want:  [][]byte{{0xff, 0xd8, 0xff, 0xd9}},
		err:   io.EOF,
	},
	{
		name:  "full",
		input: full,
		want:  fullWant,
		err:   io.EOF,
	},
	{
		name:  "nested",
		input: []byte{0xff, 0xd8, 'a', 0xff, 0xd8, 't', 0xff, 0xd9, 'b', 0xff, 0xd9},
		want:  [][]byte{{0xff, 0xd8, 'a', 0xff, 0xd8, 't', 0xff, 0xd9, 'b', 0xff, 0xd9}},
		err:   io.EOF,
	},
	{
		name:  "truncated",
		input: []byte{0xff, 0xd8, 0xff, 0xd9, 0xff, 0xd8, 'c', 'u', 't'},
		want:  [][]byte{{0xff, 0xd8, 0xff, 0xd9}},
		err:   io.ErrUnexpectedEOF,
	},
	{
		name:  "half marker",
		input: []byte{0xff, 0xd8, 0xff, 0xd9, 0xff},
		want:  [][]byte{{0xff, 0xd8, 0xff, 0xd9}},
		err:   io.ErrUnexpectedEOF,
	},
	{
		name:  "garbage",
		input: []byte{'n', 'o', 't', 0xff, 0xd8, 0xff, 0xd9},
		err:   ErrNoImageStart,
	},
}

func TestLexer(t *testing.T) {
	for _, test := range lexTests {
		l := NewLexer(bytes.NewReader(test.input), (*logging.TestLogger)(t))

		var (
			got [][]byte
			err error
		)
		for {
			var img []byte
			img, err = l.Next()
			if err != nil {
				break
			}
			got = append(got, img)
		}

		if !errors.Is(err, test.err) {
			t.Errorf("unexpected error for %q: got:%v want:%v", test.name, err, test.err)
		}
		if !cmp.Equal(got, test.want) {
			t.Errorf("unexpected result for %q:\n%s", test.name, cmp.Diff(test.want, got))
		}
	}
}

func TestLexerTooBig(t *testing.T) {
	src := make([]byte, MaxImage+10)
	src[0], src[1] = 0xff, 0xd8
	_, err := NewLexer(bytes.NewReader(src), nil).Next()
	if !errors.Is(err, ErrImageTooBig) {
		t.Errorf("did not get expected error: %v", err)
	}
}

func TestLex(t *testing.T) {
	for _, delay := range []time.Duration{0, time.Millisecond} {
		var buf chunkEncoder
		err := Lex(&buf, bytes.NewReader(full), delay)
		if err != nil {
			t.Errorf("unexpected error for delay %v: %v", delay, err)
		}
		got := [][]byte(buf)
		if !cmp.Equal(got, fullWant) {
			t.Errorf("unexpected result for delay %v:\n%s", delay, cmp.Diff(fullWant, got))
		}
	}
}

type chunkEncoder [][]byte

func (e *chunkEncoder) Write(b []byte) (int, error) {
	*e = append(*e, b)
	return len(b), nil
}
