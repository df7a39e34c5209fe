package devhandle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePathConvertsBareInteger(t *testing.T) {
	assert.Equal(t, `\\.\PhysicalDrive1`, NormalizePath("1"))
	assert.Equal(t, `\\.\PhysicalDrive0`, NormalizePath("0"))
}

func TestNormalizePathLeavesOtherPathsUntouched(t *testing.T) {
	assert.Equal(t, `\\.\PhysicalDrive1`, NormalizePath(`\\.\PhysicalDrive1`))
	assert.Equal(t, `C:\data\disk.img`, NormalizePath(`C:\data\disk.img`))
}
