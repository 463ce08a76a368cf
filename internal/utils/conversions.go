package utils

import (
	"bufio"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrRequestTooLarge is returned for a request that decodes past the size limit.
	ErrRequestTooLarge = errors.New("request too large")
	// ErrEmptyRequest is returned for a msgpack nil in place of a request map.
	ErrEmptyRequest = errors.New("empty request")
)

// EncodeResponse serializes a response map into a byte slice
func EncodeResponse(response map[string]interface{}) ([]byte, error) {
	return msgpack.Marshal(response)
}

// EncodeRequest serializes a request map into a byte slice
func EncodeRequest(request map[string]interface{}) ([]byte, error) {
	return msgpack.Marshal(request)
}

// countingReader counts the bytes consumed from the underlying reader.
// It is an io.ByteScanner, so msgpack reads through it without buffering ahead.
type countingReader struct {
	r *bufio.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}

func (c *countingReader) UnreadByte() error {
	if err := c.r.UnreadByte(); err != nil {
		return err
	}
	c.n--
	return nil
}

// RequestDecoder reads consecutive msgpack requests from a stream. Messages
// are self-delimiting, so a request split over several reads or sharing a
// read with the next one decodes the same way.
type RequestDecoder struct {
	counter  *countingReader
	dec      *msgpack.Decoder
	maxBytes int
}

// NewRequestDecoder decodes requests from r. A request whose encoding is
// longer than maxBytes is consumed and rejected with ErrRequestTooLarge;
// maxBytes <= 0 disables the check.
func NewRequestDecoder(r io.Reader, maxBytes int) *RequestDecoder {
	counter := &countingReader{r: bufio.NewReader(r)}
	return &RequestDecoder{counter: counter, dec: msgpack.NewDecoder(counter), maxBytes: maxBytes}
}

// Decode reads the next request. io.EOF is returned unwrapped when the stream
// ends between requests.
func (d *RequestDecoder) Decode() (map[string]interface{}, error) {
	d.counter.n = 0

	var request map[string]interface{}
	if err := d.dec.Decode(&request); err != nil {
		if errors.Is(err, io.EOF) && d.counter.n == 0 {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "decode request")
	}
	if d.maxBytes > 0 && d.counter.n > d.maxBytes {
		return nil, errors.Wrapf(ErrRequestTooLarge, "%d bytes, limit %d", d.counter.n, d.maxBytes)
	}
	if request == nil {
		return nil, ErrEmptyRequest
	}
	return request, nil
}

// ResponseDecoder reads consecutive msgpack responses from a stream.
type ResponseDecoder struct {
	dec *msgpack.Decoder
}

func NewResponseDecoder(r io.Reader) *ResponseDecoder {
	return &ResponseDecoder{dec: msgpack.NewDecoder(bufio.NewReader(r))}
}

// Decode reads the next response.
func (d *ResponseDecoder) Decode() (map[string]interface{}, error) {
	var response map[string]interface{}
	if err := d.dec.Decode(&response); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "decode response")
	}
	return response, nil
}

// ToInt64 converts the integer types msgpack may decode into an int64.
func ToInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}
