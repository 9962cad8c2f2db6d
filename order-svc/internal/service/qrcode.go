package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(restaurantID, tableID int) ([]byte, error)
}

type DefaultQRGenerator struct {
	BaseURL string
	Size    int
}

// OrderURL is the customer-facing link printed on a table's QR code.
func OrderURL(baseURL string, restaurantID, tableID int) string {
	return fmt.Sprintf("%s/order/%d/%d/", strings.TrimRight(baseURL, "/"), restaurantID, tableID)
}

func (g DefaultQRGenerator) Generate(restaurantID, tableID int) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(OrderURL(g.BaseURL, restaurantID, tableID), qrcode.Medium, size)
}
