package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetTraceID_AddsUniqueIDs(t *testing.T) {
	ctx1 := SetTraceID(context.Background())
	ctx2 := SetTraceID(context.Background())

	id1 := GetTraceID(ctx1)
	id2 := GetTraceID(ctx2)

	assert.Len(t, id1, 32)
	assert.Len(t, id2, 32)
	assert.NotEqual(t, id1, id2)
}

func TestGetTraceID_MissingReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
}
