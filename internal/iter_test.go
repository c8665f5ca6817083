package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain2(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"x": 1, "y": 2}
	b := map[string]int{"y": 3, "z": 4}

	got := maps.Collect(Chain2(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"x": 1, "y": 3, "z": 4}, got)

	count := 0
	for range Chain2(maps.All(a), maps.All(b)) {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(3, count)
}
