// Package reader loads ledger payloads as the backend serves them.
//
// The backend wraps record lists in an envelope: {"data": [...]}. A bare
// JSON array is accepted as well. Numbers are decoded as json.Number so
// amounts keep the precision they were sent with.
package reader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"scadenziario/internal/logger"
)

// StdinPath selects standard input in Load
const StdinPath = "-"

// envelopeField is the key under which the backend returns its records
const envelopeField = "data"

var (
	// ErrInvalidPayload is returned when the payload is not valid JSON.
	ErrInvalidPayload = errors.New("payload is not valid JSON")

	// ErrEmptyPayload is returned when there is nothing to decode.
	ErrEmptyPayload = errors.New("payload is empty")
)

// ReadError wraps errors with the source being read.
type ReadError struct {
	// Op is the operation that failed (e.g., "Load", "Decode").
	Op string

	// Err is the underlying error.
	Err error

	// Source names the file or stream.
	Source string
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("reader: %s failed (source: %s): %v", e.Op, e.Source, e.Err)
	}
	return fmt.Sprintf("reader: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// Reader decodes backend payloads
type Reader struct {
	stdin io.Reader
	log   zerolog.Logger
}

// New creates a reader that uses os.Stdin for StdinPath
func New() *Reader {
	return &Reader{
		stdin: os.Stdin,
		log:   logger.WithComponent("payload-reader"),
	}
}

// WithStdin replaces the stream used for StdinPath
func (r *Reader) WithStdin(stdin io.Reader) *Reader {
	r.stdin = stdin
	return r
}

// Load reads the payload at path, or standard input for StdinPath
func (r *Reader) Load(path string) (interface{}, error) {
	const op = "Load"

	if path == "" || path == StdinPath {
		r.log.Debug().Msg("Reading payload from stdin")
		payload, err := r.decode(r.stdin)
		if err != nil {
			return nil, &ReadError{Op: op, Err: err, Source: "stdin"}
		}
		return payload, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Op: op, Err: err, Source: path}
	}
	defer file.Close()

	r.log.Debug().Str("file", path).Msg("Reading payload from file")

	payload, err := r.decode(file)
	if err != nil {
		return nil, &ReadError{Op: op, Err: err, Source: path}
	}
	return payload, nil
}

// Decode reads one JSON document from in and unwraps the data envelope.
// Objects without a data field are returned unchanged.
func (r *Reader) Decode(in io.Reader) (interface{}, error) {
	payload, err := r.decode(in)
	if err != nil {
		return nil, &ReadError{Op: "Decode", Err: err}
	}
	return payload, nil
}

func (r *Reader) decode(in io.Reader) (interface{}, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyPayload
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var payload interface{}
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	envelope, ok := payload.(map[string]interface{})
	if !ok {
		return payload, nil
	}

	data, ok := envelope[envelopeField]
	if !ok {
		r.log.Warn().Msg("Payload object has no data field")
		return payload, nil
	}
	return data, nil
}
