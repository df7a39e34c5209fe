package devhandle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeRejectsMissingFile(t *testing.T) {
	_, err := Size("/nonexistent/go-4c/test/path")
	assert.Error(t, err)
}

func TestOpenRejectsMissingFile(t *testing.T) {
	_, err := Open("/nonexistent/go-4c/test/path", ReadOnly)
	assert.Error(t, err)
}
