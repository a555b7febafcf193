package ffmpeg

import "sync"

// ringBuffer is a fixed-capacity byte sink that retains only the most recent
// bytes written. It keeps pathological subprocess output from exhausting
// memory while preserving the diagnostic tail.
type ringBuffer struct {
	mu    sync.Mutex
	buf   []byte
	start int
	size  int
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &ringBuffer{buf: make([]byte, capacity)}
}

// Write never fails; older bytes are discarded once capacity is exceeded.
func (b *ringBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(p)
	capacity := len(b.buf)
	if n >= capacity {
		copy(b.buf, p[n-capacity:])
		b.start = 0
		b.size = capacity
		return n, nil
	}

	for _, c := range p {
		index := (b.start + b.size) % capacity
		b.buf[index] = c
		if b.size < capacity {
			b.size++
		} else {
			b.start = (b.start + 1) % capacity
		}
	}
	return n, nil
}

// String returns the retained bytes in write order.
func (b *ringBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]byte, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.buf[(b.start+i)%len(b.buf)]
	}
	return string(out)
}
