package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedGenerator_ReturnsInOrder(t *testing.T) {
	gen := NewFixedGenerator("inv-1", "inv-2")

	assert.Equal(t, "inv-1", gen.Generate())
	assert.Equal(t, "inv-2", gen.Generate())
	assert.Equal(t, "id-3", gen.Generate())
	assert.Equal(t, 3, gen.Count())
}

func TestFixedGenerator_Empty(t *testing.T) {
	gen := NewFixedGenerator()

	assert.Equal(t, "id-1", gen.Generate())
	assert.Equal(t, "id-2", gen.Generate())
}

func TestFixedGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedGenerator()

	var wg sync.WaitGroup
	seen := sync.Map{}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, dup := seen.LoadOrStore(gen.Generate(), true)
				assert.False(t, dup)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, gen.Count())
}
