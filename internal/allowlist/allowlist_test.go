package allowlist

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetBasics(t *testing.T) {
	s := New("1", " 2 ", "")

	assert.True(t, s.Contains("1"))
	assert.True(t, s.Contains("2"))
	assert.False(t, s.Contains(""))
	assert.Equal(t, 2, s.Len())

	assert.Equal(t, 1, s.Add("2", "3"))
	assert.Equal(t, []string{"1", "2", "3"}, s.List())

	assert.Equal(t, 1, s.Remove("1", "404"))
	assert.False(t, s.Contains("1"))

	s.Replace("9")
	assert.Equal(t, []string{"9"}, s.List())
}

func TestSnapshotsAreNotMutatedInPlace(t *testing.T) {
	s := New("1")
	before := *s.snap.Load()

	s.Add("2")
	_, leaked := before["2"]
	assert.False(t, leaked)
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Add(strconv.Itoa(i*1000 + j))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Contains("5")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, s.Len())
}
