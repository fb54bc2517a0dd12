package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBatchID(t *testing.T) {
	a, b := NewBatchID(), NewBatchID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
