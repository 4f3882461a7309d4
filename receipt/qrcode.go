package receipt

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

// DefaultQRGenerator encodes a link back to the order on the dashboard.
type DefaultQRGenerator struct {
	BaseURL string
	Size    int
}

func (g DefaultQRGenerator) URL(orderID string) string {
	return fmt.Sprintf("%s/dashboard?order=%s", strings.TrimRight(g.BaseURL, "/"), url.QueryEscape(orderID))
}

// Generate returns a PNG image.
func (g DefaultQRGenerator) Generate(orderID string) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(g.URL(orderID), qrcode.Medium, size)
}
