package capture

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/facegate/core"
)

func TestParseImageDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))

	sample, err := ParseImage("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake png bytes"), sample.Data)
	assert.Equal(t, "image/jpeg", sample.MIME)
}

func TestParseImageBareBase64(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47})

	sample, err := ParseImage(payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", sample.MIME)
	assert.Len(t, sample.Data, 4)
}

func TestParseImageRejectsGarbage(t *testing.T) {
	for _, input := range []string{
		"",
		"data:image/png;base64",     // no payload separator
		"data:image/png,plain-text", // not base64-encoded
		"!!not base64!!",
	} {
		_, err := ParseImage(input)
		assert.ErrorIs(t, err, core.ErrInvalidSample, "input %q", input)
	}
}

func TestRejectionReasonSingleDetail(t *testing.T) {
	assert.Equal(t, "invalid credentials", rejectionReason([]byte(`{"detail":"invalid credentials"}`)))
}

func TestRejectionReasonListDetail(t *testing.T) {
	body := []byte(`{"detail":[{"msg":"face not detected"},{"msg":"image too dark"}]}`)
	assert.Equal(t, "face not detected, image too dark", rejectionReason(body))
}

func TestRejectionReasonFallback(t *testing.T) {
	for _, body := range []string{``, `{}`, `{"detail":[]}`, `{"detail":{"weird":1}}`, `not json`} {
		assert.Equal(t, fallbackReason, rejectionReason([]byte(body)), "body %q", body)
	}
}
