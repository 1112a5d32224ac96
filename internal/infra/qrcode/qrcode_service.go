package qrcode

import (
	"net/url"
	"strings"

	"gramosi/internal/domain/service"
	"gramosi/internal/errors"

	"github.com/skip2/go-qrcode"
)

const (
	defaultSize    = 256
	profilePathSeg = "profile"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService creates a QR code service producing links under baseURL.
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = defaultSize
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// GenerateProfileQR encodes the profile link of userName as a PNG.
func (s *qrcodeService) GenerateProfileQR(userName string) ([]byte, error) {
	if userName == "" {
		return nil, errors.New("user name is required")
	}

	qrCode, err := qrcode.New(s.profileLink(userName), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseProfileQR returns the user name of a scanned profile link.
func (s *qrcodeService) ParseProfileQR(qrData string) (string, error) {
	prefix := s.baseURL + "/" + profilePathSeg + "/"
	if !strings.HasPrefix(qrData, prefix) {
		return "", errors.Errorf("not a profile link: %q", qrData)
	}

	userName, err := url.PathUnescape(strings.TrimPrefix(qrData, prefix))
	if err != nil {
		return "", errors.Wrap(err, "failed to decode user name")
	}
	if userName == "" || strings.Contains(userName, "/") {
		return "", errors.Errorf("invalid profile link: %q", qrData)
	}

	return userName, nil
}

func (s *qrcodeService) profileLink(userName string) string {
	return s.baseURL + "/" + profilePathSeg + "/" + url.PathEscape(userName)
}
