package qrcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
		{"Default size", 0, "M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, tt.errorCorrectionLevel, "https://gramosi.app")
			assert.NotNil(t, service)
		})
	}
}

func TestQRCodeService_GenerateProfileQR(t *testing.T) {
	service := NewQRCodeService(256, "M", "https://gramosi.app")

	qrBytes, err := service.GenerateProfileQR("alice")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(qrBytes), 4)

	// PNG magic number
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, qrBytes[:4])
}

func TestQRCodeService_GenerateProfileQR_EmptyUserName(t *testing.T) {
	service := NewQRCodeService(256, "M", "https://gramosi.app")

	_, err := service.GenerateProfileQR("")
	assert.Error(t, err)
}

func TestQRCodeService_ParseProfileQR(t *testing.T) {
	service := NewQRCodeService(256, "M", "https://gramosi.app/")

	tests := []struct {
		name    string
		data    string
		want    string
		wantErr bool
	}{
		{name: "valid link", data: "https://gramosi.app/profile/alice", want: "alice"},
		{name: "escaped user name", data: "https://gramosi.app/profile/a%20b", want: "a b"},
		{name: "foreign host", data: "https://evil.example/profile/alice", wantErr: true},
		{name: "missing user name", data: "https://gramosi.app/profile/", wantErr: true},
		{name: "nested path", data: "https://gramosi.app/profile/alice/posts", wantErr: true},
		{name: "bad escape", data: "https://gramosi.app/profile/%zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ParseProfileQR(tt.data)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQRCodeService_RoundTrip(t *testing.T) {
	svc := NewQRCodeService(128, "L", "https://gramosi.app").(*qrcodeService)

	got, err := svc.ParseProfileQR(svc.profileLink("bob.smith"))
	require.NoError(t, err)
	assert.Equal(t, "bob.smith", got)
}
