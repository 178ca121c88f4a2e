package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"taaza/backend/internal/domain"
	"taaza/backend/internal/store"
)

const receiptDivider = "----------------------------------------"

// Receipt renders the printable bill for an order: a monospace preview
// and the same lines as an ESC/POS byte stream (base64) for the local
// printer bridge.
func (s *Service) Receipt(ctx context.Context, id string) (domain.ReceiptResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ReceiptResponse{}, store.ErrInvalidRecord
	}
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return domain.ReceiptResponse{}, err
	}

	lines := s.receiptLines(*order)

	escpos := []byte{0x1b, 0x40}
	for _, line := range lines {
		escpos = append(escpos, []byte(line)...)
		escpos = append(escpos, '\n')
	}
	escpos = append(escpos, []byte{0x1d, 0x56, 0x41, 0x10}...)

	return domain.ReceiptResponse{
		OrderID:      order.OrderID,
		FileName:     fmt.Sprintf("receipt-%s.bin", order.OrderID),
		PreviewText:  strings.Join(lines, "\n"),
		EscposBase64: base64.StdEncoding.EncodeToString(escpos),
	}, nil
}

func (s *Service) receiptLines(order domain.Order) []string {
	billNo := order.OrderID
	billNo = strings.Replace(billNo, "ADM-", "A/", 1)
	billNo = strings.Replace(billNo, "CUS-", "C/", 1)

	tendered := order.TenderedPaise
	if tendered == 0 {
		tendered = order.TotalPaise
	}

	lines := []string{
		s.shopName,
		"PH.NO: " + s.shopPhone,
		receiptDivider,
		fmt.Sprintf("TIME: %s   DATE: %s",
			order.CreatedAt.Format("15:04"),
			order.CreatedAt.Format("02/01/2006")),
		fmt.Sprintf("BILL: %s   TYPE: RETAIL", billNo),
		receiptDivider,
		"         BILL OF SUPPLY",
		receiptDivider,
		"ITEM           QTY   RATE   TOTAL",
		receiptDivider,
	}

	totalQty := 0
	for _, item := range order.Items {
		qty := item.Qty
		if qty < 1 {
			qty = 1
		}
		totalQty += qty
		rate := item.PricePerKgPaise
		if rate == 0 {
			rate = item.AmountPaise
		}
		lines = append(lines, fmt.Sprintf("%-14.14s%4d%7s%8s",
			item.Name, qty, rupees(rate), rupees(item.TotalPaise)))
	}

	lines = append(lines,
		receiptDivider,
		"TOTAL: "+rupees(order.TotalPaise),
		fmt.Sprintf("ITEMS/QTY: %d/%d", len(order.Items), totalQty),
		receiptDivider,
		"TENDERED: "+rupees(tendered),
		strings.ToUpper(order.PaymentMethod)+": "+rupees(order.TotalPaise),
		receiptDivider,
		"      THANK YOU.....VISIT AGAIN",
		"",
	)
	return lines
}

func rupees(paise int64) string {
	return fmt.Sprintf("%d.%02d", paise/100, paise%100)
}
