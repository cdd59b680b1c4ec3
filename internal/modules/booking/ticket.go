package booking

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"taxibooking/internal/domain"
)

// Ticket renders the booking as a PDF e-ticket. It returns the file and the
// booking code.
func (s *Service) Ticket(ctx context.Context, bookingID int64, requester domain.Requester) ([]byte, string, error) {
	b, err := s.GetBooking(ctx, bookingID, requester)
	if err != nil {
		return nil, "", err
	}
	taxi, err := s.taxis.GetByID(ctx, b.TaxiID)
	if err != nil {
		return nil, "", lookupErr("taxi", err)
	}
	route, err := s.routes.GetByID(ctx, b.RouteID)
	if err != nil {
		return nil, "", lookupErr("route", err)
	}

	pdf, err := buildTicketPDF(b, taxi, route, s.loc)
	if err != nil {
		return nil, "", err
	}
	return pdf, b.Code, nil
}

func buildTicketPDF(b *domain.Booking, taxi *domain.Taxi, route *domain.Route, loc *time.Location) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Taxi E-Ticket "+b.Code, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TAXI E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Booking ID   : " + b.Code,
		"Status       : " + string(b.Status),
		"Payment      : " + string(b.PaymentStatus),
		"Ride date    : " + b.RideDate.In(loc).Format("02 Jan 2006"),
		fmt.Sprintf("Route        : %s -> %s", route.Source, route.Destination),
		fmt.Sprintf("Departure    : %s  Arrival: %s", route.DepartureTime, route.ArrivalTime),
		fmt.Sprintf("Taxi         : %s %s (%s)", taxi.Name, taxi.Model, taxi.VehicleNumber),
		"Driver       : " + safe(taxi.DriverName, "-") + " " + safe(taxi.DriverPhone, ""),
		"Passenger    : " + b.Passenger.Name + " " + b.Passenger.Phone,
		fmt.Sprintf("Passengers   : %d", b.PassengerCount),
	}
	if b.Pickup.Location != "" {
		lines = append(lines, "Pickup       : "+b.Pickup.Location+" "+b.Pickup.Time)
	}
	if b.Drop.Location != "" {
		lines = append(lines, "Drop         : "+b.Drop.Location+" "+b.Drop.Time)
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+formatAmount(b.TotalAmount))
	pdf.Ln(8)
	if b.RefundAmount > 0 {
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 8, "Refunded: "+formatAmount(b.RefundAmount))
		pdf.Ln(8)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please show this ticket to the driver at pickup.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket: %w", err)
	}
	return buf.Bytes(), nil
}

// formatAmount prints minor units with two decimals.
func formatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func safe(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
