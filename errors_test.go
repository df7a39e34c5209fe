package fourc

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageFormatting(t *testing.T) {
	err := NewDeviceError("open-device", "/dev/nvme0n1", ErrCodeOpenFailed, "permission denied")
	assert.Contains(t, err.Error(), "open-device")
	assert.Contains(t, err.Error(), "/dev/nvme0n1")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestErrorIsMatchesByCode(t *testing.T) {
	a := NewError("allocate", ErrCodeAllocationFailed, "out of memory")
	b := NewError("allocate", ErrCodeAllocationFailed, "different message, same code")
	c := NewError("open-device", ErrCodeOpenFailed, "enoent")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestWrapErrnoMapsCommonErrnos(t *testing.T) {
	cases := []struct {
		errno syscall.Errno
		want  ErrorCode
	}{
		{syscall.ENOMEM, ErrCodeAllocationFailed},
		{syscall.EINVAL, ErrCodeInvalidParameters},
		{syscall.ENOENT, ErrCodeOpenFailed},
	}
	for _, c := range cases {
		err := WrapErrno("open-device", "/dev/sdx", c.errno)
		assert.Equal(t, c.want, err.Code)
		assert.Equal(t, c.errno, err.Errno)
	}
}

func TestIsCode(t *testing.T) {
	err := NewError("run-test", ErrCodeNoDevices, "no device paths given")
	assert.True(t, IsCode(err, ErrCodeNoDevices))
	assert.False(t, IsCode(err, ErrCodeZeroSizeDevice))
	assert.False(t, IsCode(errors.New("plain error"), ErrCodeNoDevices))
}

func TestWrapErrnoNil(t *testing.T) {
	assert.Nil(t, WrapErrno("op", "dev", nil))
}
