package services

import (
	"bytes"
	"fmt"
	"strings"

	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the two-page ticket document (ticket + receipt) for a
// finalized booking. Read-only: it consumes the summary and never writes back.
type DocsService struct {
	BookingRepo repositories.BookingRepo
	RequestID   string
	Loader      func(ticketNo string) (models.Booking, error)
}

func (s DocsService) load(ticketNo string) (models.Booking, error) {
	if s.Loader != nil {
		return s.Loader(ticketNo)
	}
	return s.BookingRepo.GetByTicket(ticketNo)
}

// GenerateTicketPDF builds the passenger document: page one is the boarding
// ticket, page two the payment receipt.
func (s DocsService) GenerateTicketPDF(ticketNo string) ([]byte, string, error) {
	b, err := s.load(ticketNo)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_ticket", fmt.Sprintf("ticket_no=%s", b.TicketNo))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bus Ticket", false)

	drawTicketPage(pdf, b)
	drawReceiptPage(pdf, b)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("receipt_%s.pdf", b.TicketNo), nil
}

func drawTicketPage(pdf *gofpdf.Fpdf, b models.Booking) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUS TICKET")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "(for the passenger)")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 22)
	pdf.Cell(0, 10, b.TicketNo)
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger : %s", safe(b.CustomerName, "-")),
		fmt.Sprintf("Phone     : %s", safe(b.Phone, "-")),
		fmt.Sprintf("Route     : %s -> %s", safe(b.RouteFrom, "-"), safe(b.RouteTo, "-")),
		fmt.Sprintf("Date      : %s", safe(b.TravelDate, "-")),
		fmt.Sprintf("Departure : %s    Arrival : %s", safe(b.DepTime, "-"), safe(b.ArrTime, "-")),
		fmt.Sprintf("Seats     : %s", safe(b.SeatList, "-")),
		fmt.Sprintf("Status    : %s", string(b.Status)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Note: this ticket covers the listed seats only. Please present it at boarding.", "", "", false)
}

func drawReceiptPage(pdf *gofpdf.Fpdf, b models.Booking) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RECEIPT")
	pdf.Ln(12)

	seatCount := len(utils.SplitSeatList(b.SeatList))
	if seatCount == 0 {
		seatCount = 1
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Payment of : Bus Ticket No. %s (%d seats)", b.TicketNo, seatCount))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	rows := [][2]string{
		{"Customer", safe(b.CustomerName, "-")},
		{"Travel date", safe(b.TravelDate, "-")},
		{"Route", fmt.Sprintf("%s -> %s", safe(b.RouteFrom, "-"), safe(b.RouteTo, "-"))},
		{"Subtotal", utils.FormatBaht(b.Price)},
		{"VAT 7%", utils.FormatBaht(b.VAT)},
	}
	for _, row := range rows {
		pdf.Cell(50, 7, row[0])
		pdf.Cell(0, 7, row[1])
		pdf.Ln(7)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(50, 8, "TOTAL")
	pdf.Cell(0, 8, utils.FormatBaht(b.Total()))
	pdf.Ln(10)

	if strings.TrimSpace(b.SlipPath) != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, fmt.Sprintf("Payment slip reference: %s", b.SlipPath), "", "", false)
	}
}

func safe(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
