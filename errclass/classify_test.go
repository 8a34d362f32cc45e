package errclass

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNil(t *testing.T) {
	assert.Equal(t, "", New(nil))
}

func TestNewCanceled(t *testing.T) {
	assert.Equal(t, "interrupted", New(context.Canceled))
}

func TestNewDeadlineExceeded(t *testing.T) {
	assert.Equal(t, "timed_out", New(context.DeadlineExceeded))
}

func TestNewNotExist(t *testing.T) {
	assert.Equal(t, "not_found", New(fs.ErrNotExist))
}

func TestNewPermission(t *testing.T) {
	assert.Equal(t, "permission_denied", New(fs.ErrPermission))
}

func TestNewUnknown(t *testing.T) {
	assert.Equal(t, "unknown", New(errors.New("something else")))
}
