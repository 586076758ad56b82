package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"busline/internal/domain/models"
	"busline/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the e-ticket and receipt PDFs of a confirmed booking.
type DocsService struct {
	History   BookingHistoryService
	RequestID string
	Loader    func(ctx context.Context, userID, ref string) (models.BookingSummary, error)
}

func (s DocsService) GenerateETicket(ctx context.Context, userID, ref string) ([]byte, string, error) {
	b, err := s.load(ctx, userID, ref)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", "ref="+b.Reference)
	return buildETicketPDF(b)
}

func (s DocsService) GenerateReceipt(ctx context.Context, userID, ref string) ([]byte, string, error) {
	b, err := s.load(ctx, userID, ref)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", "ref="+b.Reference)
	return buildReceiptPDF(b)
}

func (s DocsService) load(ctx context.Context, userID, ref string) (models.BookingSummary, error) {
	if s.Loader != nil {
		return s.Loader(ctx, userID, ref)
	}
	return s.History.Get(ctx, userID, ref)
}

func buildETicketPDF(b models.BookingSummary) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+b.Reference, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking Ref    : %s", safe(b.Reference, "-")),
		fmt.Sprintf("Operator       : %s (%s)", safe(b.OperatorName, "-"), safe(b.BusCategory, "-")),
		fmt.Sprintf("Route          : %s -> %s", safe(b.Origin, "-"), safe(b.Destination, "-")),
		fmt.Sprintf("Date           : %s", safe(b.TravelDate, "-")),
		fmt.Sprintf("Departure      : %s   Arrival: %s", safe(b.DepartureTime, "-"), safe(b.ArrivalTime, "-")),
		fmt.Sprintf("Pickup         : %s", safe(b.PickupPoint, "-")),
		fmt.Sprintf("Drop           : %s", safe(b.DropPoint, "-")),
		fmt.Sprintf("Seats          : %s", safe(strings.Join(b.Seats, ", "), "-")),
		fmt.Sprintf("Status         : %s / %s", safe(b.BookingStatus, "-"), safe(b.PaymentStatus, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, p := range b.Passengers {
		pdf.Cell(0, 6, fmt.Sprintf("%d) %s  seat %s  age %s  %s", i+1,
			safe(p.Name, "-"), safe(p.SeatID, "-"), safe(p.Age, "-"), safe(p.Gender, "-")))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please carry a valid photo ID matching the passenger details. Report 15 minutes before departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(b.Reference)), nil
}

func buildReceiptPDF(b models.BookingSummary) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt "+b.Reference, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Booking Ref : "+safe(b.Reference, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Paid on     : "+safe(utils.FormatDate(b.CreatedAt), "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Method      : "+safe(b.PaymentMethod, "-"))
	pdf.Ln(10)

	desc := fmt.Sprintf("%s %s -> %s (%s %s), seats %s",
		safe(b.OperatorName, "-"), safe(b.Origin, "-"), safe(b.Destination, "-"),
		safe(b.TravelDate, "-"), safe(b.DepartureTime, "-"), safe(strings.Join(b.Seats, ", "), "-"))
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, desc, "", "", false)
	pdf.Ln(4)

	pdf.Cell(0, 6, "Subtotal : "+utils.FormatAmount(b.TotalAmount))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Tax      : "+utils.FormatAmount(b.TaxAmount))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total    : "+utils.FormatAmount(b.FinalAmount))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Simulated payment. No card was charged.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("RECEIPT_%s.pdf", safeFilenamePart(b.Reference)), nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
