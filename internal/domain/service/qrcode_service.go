package service

// QRCodeService defines the interface for profile share QR codes.
type QRCodeService interface {
	// GenerateProfileQR renders a PNG QR code pointing at the public profile of userName.
	GenerateProfileQR(userName string) ([]byte, error)

	// ParseProfileQR extracts the user name from scanned QR payload.
	ParseProfileQR(qrData string) (string, error)
}
