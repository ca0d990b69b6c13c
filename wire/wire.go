package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// HeaderSize is the size of the RFC5734 frame length header in octets.
const HeaderSize = 4

// DefaultMaxFrame is the payload size limit applied by Readers whose
// Max field is zero.
const DefaultMaxFrame = 1 << 20

// ErrBadLength indicates a frame header whose length value cannot
// describe a frame: smaller than the header plus one payload octet, or
// larger than the reader's limit.
type ErrBadLength struct {
	Length uint32
	Max    int
}

func (e ErrBadLength) Error() string {
	if e.Max > 0 {
		return fmt.Sprintf("epp frame length %d exceeds limit %d", e.Length, e.Max)
	}
	return fmt.Sprintf("invalid epp frame length %d", e.Length)
}

// Reader decodes RFC5734 frames from a byte stream.
//
// The EPP transport mapping prefixes each XML document with a 4 octet
// unsigned big-endian total length, header included.  Reader performs
// no buffering beyond the frame being read; the strictly alternating
// request/response exchange means there is never wire data belonging
// to a later frame in flight.
type Reader struct {
	src io.Reader

	// Max bounds the payload size accepted from the peer. Zero means
	// DefaultMaxFrame.
	Max int
}

// NewReader returns a Reader decoding frames from source.
func NewReader(source io.Reader) *Reader {
	if source == nil {
		panic("NewReader: source must be non-nil")
	}
	return &Reader{src: source}
}

// ReadFrame reads one frame, returning its XML payload.
//
// It returns ErrBadLength for an impossible header value.  When the
// stream ends it returns io.EOF, unwrapped, at a clean frame boundary,
// and a wrapped io.ErrUnexpectedEOF for a truncated header or payload.
func (r *Reader) ReadFrame() ([]byte, error) {
	var hdr [HeaderSize]byte
	if _, err := io.ReadFull(r.src, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, errors.Wrap(err, "reading frame header")
	}
	max := r.Max
	if max == 0 {
		max = DefaultMaxFrame
	}
	total := binary.BigEndian.Uint32(hdr[:])
	switch {
	case total < HeaderSize+1:
		return nil, ErrBadLength{Length: total}
	case int(total)-HeaderSize > max:
		return nil, ErrBadLength{Length: total, Max: max}
	}
	payload := make([]byte, int(total)-HeaderSize)
	if _, err := io.ReadFull(r.src, payload); err != nil {
		return nil, errors.Wrap(err, "reading frame payload")
	}
	return payload, nil
}

// Writer encodes RFC5734 frames onto a byte stream.
type Writer struct {
	dst io.Writer
}

// NewWriter returns a Writer encoding frames to dst.
func NewWriter(dst io.Writer) *Writer { return &Writer{dst: dst} }

// WriteFrame writes payload as one frame.  The header and payload are
// written with a single Write call on the destination so a frame is
// never interleaved on concurrent streams.
//
// It returns the number of payload bytes written, along with any error.
func (w *Writer) WriteFrame(payload []byte) (int, error) {
	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf[:HeaderSize], uint32(HeaderSize+len(payload)))
	copy(buf[HeaderSize:], payload)
	n, err := w.dst.Write(buf)
	if err == nil && n < len(buf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return 0, errors.Wrap(err, "writing frame")
	}
	return len(payload), nil
}
