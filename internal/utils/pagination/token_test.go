package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	recordDate := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(recordDate, createdAt)
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")

	gotDate, gotCreated, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, recordDate, gotDate)
	assert.Equal(t, createdAt, gotCreated)

	now := time.Now()
	gotDate, gotCreated, err = DecodeToken(EncodeToken(now, now))
	require.NoError(t, err)
	assert.True(t, now.Equal(gotDate))
	assert.True(t, now.Equal(gotCreated))
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, _, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("no-separator")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, _, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("yesterday|2026-01-01T00:00:00Z")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record date parse")

	_, _, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2026-01-01T00:00:00Z|later")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}
