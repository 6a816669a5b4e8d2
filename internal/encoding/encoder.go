// Package encoding provides pooled JSON encoding for the hot prediction
// path, avoiding a buffer allocation per response.
package encoding

import (
	"bytes"
	"encoding/json"
	"sync"
)

// BufferPool recycles encode buffers between responses
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool creates a buffer pool
func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

// Get retrieves a reset buffer from the pool
func (bp *BufferPool) Get() *bytes.Buffer {
	buf := bp.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Put returns a buffer to the pool. Oversized buffers are dropped so a
// single large response does not pin memory.
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	if buf.Cap() > 1<<20 {
		return
	}
	bp.pool.Put(buf)
}

// JSONEncoder provides pooled JSON encoding and decoding
type JSONEncoder struct {
	buffers *BufferPool

	mu      sync.Mutex
	encodes int64
	decodes int64
}

// NewJSONEncoder creates a new pooled JSON encoder
func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{buffers: NewBufferPool()}
}

// Marshal encodes v to compact JSON using a pooled buffer
func (e *JSONEncoder) Marshal(v interface{}) ([]byte, error) {
	buf := e.buffers.Get()
	defer e.buffers.Put(buf)

	enc := json.NewEncoder(buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.encodes++
	e.mu.Unlock()

	// Encode appends a trailing newline; strip it and copy out of the
	// pooled buffer before it is reused.
	data := buf.Bytes()
	if n := len(data); n > 0 && data[n-1] == '\n' {
		data = data[:n-1]
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Unmarshal decodes JSON data into v
func (e *JSONEncoder) Unmarshal(data []byte, v interface{}) error {
	e.mu.Lock()
	e.decodes++
	e.mu.Unlock()

	return json.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// GetStats returns encoder usage statistics
func (e *JSONEncoder) GetStats() map[string]interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	return map[string]interface{}{
		"encodes": e.encodes,
		"decodes": e.decodes,
	}
}

var defaultEncoder = NewJSONEncoder()

// MarshalJSON encodes v using the shared pooled encoder
func MarshalJSON(v interface{}) ([]byte, error) {
	return defaultEncoder.Marshal(v)
}

// UnmarshalJSON decodes data using the shared pooled encoder
func UnmarshalJSON(data []byte, v interface{}) error {
	return defaultEncoder.Unmarshal(data, v)
}
