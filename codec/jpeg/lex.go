/*
NAME
  lex.go

DESCRIPTION
  lex.go provides a lexer to extract separate JPEG images from a JPEG stream.
  This could either be a series of discrete JPEG images, or an MJPEG stream.

AUTHOR
  Dan Kortschak <dan@ausocean.org>
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package jpeg provides lexing of MJPEG streams into individual JPEG images.
package jpeg

import (
	"bufio"
	"bytes"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/ausocean/utils/logging"
)

// MaxImage is the largest JPEG image, in bytes, the lexer will accept.
const MaxImage = 16 << 20

// JPEG marker codes.
const (
	codeSOI = 0xd8 // Start of image.
	codeEOI = 0xd9 // End of image.
)

// Lexer errors.
var (
	ErrNoImageStart = errors.New("not JPEG image start")
	ErrImageTooBig  = errors.New("JPEG image too big")
)

var noDelay = make(chan time.Time)

func init() {
	close(noDelay)
}

// Lexer splits a JPEG stream into images. Images may contain nested images,
// such as EXIF thumbnails; an image ends at the end of image marker that
// balances its start of image marker.
type Lexer struct {
	r   *bufio.Reader
	log logging.Logger
	n   int // Number of images lexed.
}

// NewLexer returns a Lexer reading from src. log may be nil.
func NewLexer(src io.Reader, log logging.Logger) *Lexer {
	return &Lexer{r: bufio.NewReader(src), log: log}
}

// Next returns the next JPEG image in the stream. It returns io.EOF if the
// stream ends between images and io.ErrUnexpectedEOF if it ends within one.
// The returned slice is not reused by the Lexer.
func (l *Lexer) Next() ([]byte, error) {
	buf := make([]byte, 2, 4<<10)
	n, err := io.ReadFull(l.r, buf)
	switch {
	case n == 0 && err == io.EOF:
		return nil, io.EOF
	case err == io.ErrUnexpectedEOF:
		return nil, err
	case err != nil:
		return nil, errors.Wrap(err, "could not read image start")
	}

	if !bytes.Equal(buf, []byte{0xff, codeSOI}) {
		return nil, errors.Wrapf(ErrNoImageStart, "image %d starts %#v", l.n, buf)
	}

	nImg := 1

	var last byte
	for {
		b, err := l.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, errors.Wrap(err, "could not read image")
		}

		buf = append(buf, b)
		if len(buf) > MaxImage {
			return nil, errors.Wrapf(ErrImageTooBig, "image %d", l.n)
		}

		if last == 0xff && b == codeSOI {
			nImg++
		}

		if last == 0xff && b == codeEOI {
			nImg--
		}

		if nImg == 0 {
			l.n++
			if l.log != nil {
				l.log.Debug("lexed image", "n", l.n, "len(buf)", len(buf))
			}
			return buf, nil
		}

		last = b
	}
}

// Lex parses JPEG images read from src into separate writes to dst with
// successive writes being performed not earlier than the specified delay.
// Lex returns nil when src is exhausted between images.
func Lex(dst io.Writer, src io.Reader, delay time.Duration) error {
	var tick <-chan time.Time
	if delay == 0 {
		tick = noDelay
	} else {
		ticker := time.NewTicker(delay)
		defer ticker.Stop()
		tick = ticker.C
	}

	l := NewLexer(src, nil)
	for {
		buf, err := l.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		<-tick
		_, err = dst.Write(buf)
		if err != nil {
			return errors.Wrap(err, "could not write image")
		}
	}
}
