package request

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narongrit/meme-hub/domain"
)

func TestDecodeImage(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake-png"))

	req := UploadMeme{Image: "data:image/png;base64," + payload}
	data, ext, err := req.DecodeImage()
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png"), data)
	assert.Equal(t, "png", ext)
}

func TestDecodeImageRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name  string
		image string
	}{
		{"not a data url", "hello"},
		{"unsupported type", "data:image/tiff;base64,AAAA"},
		{"not base64", "data:image/png;base64,$$$not-base64$$$"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := UploadMeme{Image: tt.image}
			_, _, err := req.DecodeImage()
			assert.ErrorIs(t, err, domain.ErrBadParamInput)
		})
	}
}
