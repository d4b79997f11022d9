package helpers

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// QRCodePNG encodes content as a size x size PNG.
func QRCodePNG(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, size)
}

// PNGDataURI embeds png in a data URI usable as an <img> source.
func PNGDataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
