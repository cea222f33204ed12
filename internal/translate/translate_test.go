package translate

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestFrom(t *testing.T) {
	assert.Equal(t, "unknown opcode", From("unknown opcode"))
	assert.Equal(t, "IndexX out of range", From("%s out of range", "IndexX"))
}

func TestPrinterResolvedOnce(t *testing.T) {
	assert.NotNil(t, printer())
	assert.True(t, printer() == printer())
}
