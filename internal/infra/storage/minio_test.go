package storage

import (
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/growthaudit/internal/domain/kv"
)

func minioErr(code string, status int) error {
	return minio.ErrorResponse{Code: code, StatusCode: status, Message: code}
}

func TestMapNotFound(t *testing.T) {
	err := mapNotFound(minioErr("NoSuchKey", 404))
	assert.ErrorIs(t, err, kv.ErrNotFound)

	other := minioErr("AccessDenied", 403)
	assert.NotErrorIs(t, mapNotFound(other), kv.ErrNotFound)
}
