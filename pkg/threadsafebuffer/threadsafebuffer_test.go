package threadsafebuffer

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestThreadSafeBuffer(t *testing.T) {
	t.Parallel()

	var buf ThreadSafeBuffer
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := buf.Write([]byte("line\n"))
			require.NoError(t, err)
			_ = buf.String()
		}()
	}
	wg.Wait()

	require.Equal(t, 20, strings.Count(buf.String(), "line\n"))

	buf.Reset()
	require.Empty(t, buf.String())
}
