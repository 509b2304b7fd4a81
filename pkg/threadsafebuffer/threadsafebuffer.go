// Package threadsafebuffer provides a bytes.Buffer that can be written to by a
// logger on one goroutine and read by a test on another.
package threadsafebuffer

import (
	"bytes"
	"sync"
)

type ThreadSafeBuffer struct {
	buf  bytes.Buffer
	lock sync.Mutex
}

func (t *ThreadSafeBuffer) Write(p []byte) (int, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.buf.Write(p)
}

func (t *ThreadSafeBuffer) String() string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.buf.String()
}

func (t *ThreadSafeBuffer) Reset() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.buf.Reset()
}
