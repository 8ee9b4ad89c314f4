package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tjanson/decsync-go/internal/logio"
	"github.com/tjanson/decsync-go/pkg/jsonvalue"
)

func TestValuePreview(t *testing.T) {
	t.Parallel()

	entry := logio.Entry{DateTime: logio.NowDateTime(), Key: jsonvalue.String("name"), Value: jsonvalue.String("Alice")}
	assert.Equal(t, `"Alice"`, valuePreview(entry))

	entry.Value = jsonvalue.Int(42)
	assert.Equal(t, "42", valuePreview(entry))
}
