package gobound_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/reoring/gobound"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPromote_ProducesOnce(t *testing.T) {
	var calls atomic.Int32
	s := gobound.Promote(func() ([]int, error) {
		calls.Add(1)
		return []int{1, 2, 3}, nil
	})
	assert.Zero(t, calls.Load(), "producer must not run before first Get")
	first, err := s.Get()
	require.NoError(t, err)
	second := s.MustGet()
	assert.Equal(t, []int{1, 2, 3}, first)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, calls.Load())
}

func TestPromote_CachesError(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	s := gobound.Promote(func() (string, error) {
		calls++
		return "", boom
	})
	for range 3 {
		_, err := s.Get()
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, 1, calls)
	assert.Panics(t, func() { s.MustGet() })
}

func TestPromote_ConcurrentGet(t *testing.T) {
	var calls atomic.Int32
	s := gobound.PromoteSpan[int](func() (*gobound.Vector[int], error) {
		calls.Add(1)
		return gobound.VectorOf(8, 4, 5, 6)
	})
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			span := s.MustGet()
			assert.Equal(t, 3, span.Len())
			assert.Equal(t, 6, span.At(2))
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, calls.Load())
}

func TestPromoteSpan_RightSized(t *testing.T) {
	s := gobound.PromoteSpan[float64](func() (*gobound.Vector[float64], error) {
		v := gobound.NewVector[float64](128)
		for _, x := range []float64{0.5, 1.5, 2.5} {
			if err := v.Push(x); err != nil {
				return nil, err
			}
		}
		return v, nil
	})
	span, err := s.Get()
	require.NoError(t, err)
	got := span.Clone()
	assert.Equal(t, []float64{0.5, 1.5, 2.5}, got)
	assert.Equal(t, len(got), cap(got))

	got[0] = 99
	assert.Equal(t, 0.5, s.MustGet().At(0), "Clone must not alias the pinned storage")
}

func TestPromoteSpan_FromSlice(t *testing.T) {
	s := gobound.PromoteSpan[string](func() (gobound.Iterable[string], error) {
		return gobound.SliceOf([]string{"if", "else", "for"}), nil
	})
	var seen []string
	for _, w := range s.MustGet().All() {
		seen = append(seen, w)
	}
	assert.Equal(t, []string{"if", "else", "for"}, seen)
}

func TestPromoteString(t *testing.T) {
	bounded := gobound.PromoteString(func() (*gobound.String, error) {
		return gobound.StringOf(64, "GET /index.html")
	})
	assert.Equal(t, "GET /index.html", bounded.MustGet())

	type path string
	named := gobound.PromoteString(func() (path, error) { return "/etc", nil })
	assert.Equal(t, "/etc", named.MustGet())

	raw := gobound.PromoteString(func() ([]byte, error) { return []byte("raw"), nil })
	assert.Equal(t, "raw", raw.MustGet())
}

func TestRightSize(t *testing.T) {
	v, err := gobound.VectorOf(32, 'a', 'b')
	require.NoError(t, err)
	out := gobound.RightSize[rune](v)
	assert.Equal(t, []rune{'a', 'b'}, out)
	assert.Equal(t, 2, cap(out))

	s, err := gobound.StringOf(16, "xyz")
	require.NoError(t, err)
	assert.Equal(t, []byte("xyz"), gobound.RightSize[byte](s))
}

func TestPromoteMinimized(t *testing.T) {
	s := gobound.PromoteMinimized(64, func() (map[string][]int, error) {
		return map[string][]int{"primes": {2, 3, 5, 7}}, nil
	})
	v, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v.Cap())
	primes, err := v.Get("primes")
	require.NoError(t, err)
	assert.Equal(t, 4, primes.Cap())
	assert.Equal(t, `{"primes":[2 3 5 7]}`, v.String())
}
