package queue

import (
	"strings"
	"testing"
	"time"
)

func sampleEvent(kind string) BookingEvent {
	return BookingEvent{
		Kind:            kind,
		BookingID:       12,
		ReservationID:   "RSV-20261003-193000-a1b2c3",
		Status:          "confirmed",
		ShowDate:        "2026-10-03",
		ShowTime:        "19:30",
		Guests:          2,
		PackageName:     "Dinner & Show",
		CustomerName:    "Eva Janssen",
		CustomerEmail:   "eva@example.com",
		TotalPriceCents: 15800,
		OccurredAt:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNotificationLines(t *testing.T) {
	t.Run("submitted produces guest and back-office lines", func(t *testing.T) {
		lines, err := NotificationLines(sampleEvent(EventBookingSubmitted))
		if err != nil {
			t.Fatalf("NotificationLines: %v", err)
		}
		if len(lines) != 2 {
			t.Fatalf("got %d lines, want 2", len(lines))
		}
		if !strings.Contains(lines[0], "TO eva@example.com") || !strings.Contains(lines[0], "RSV-20261003-193000-a1b2c3") {
			t.Fatalf("guest line = %q", lines[0])
		}
		if !strings.Contains(lines[0], "total=158.00") {
			t.Fatalf("guest line lacks formatted total: %q", lines[0])
		}
		if !strings.Contains(lines[1], "TO back-office") || !strings.Contains(lines[1], "overbooking=false") {
			t.Fatalf("office line = %q", lines[1])
		}
	})

	t.Run("cancelled mentions freed guests", func(t *testing.T) {
		lines, err := NotificationLines(sampleEvent(EventBookingCancelled))
		if err != nil {
			t.Fatalf("NotificationLines: %v", err)
		}
		if !strings.Contains(lines[1], "2 guest(s) freed") {
			t.Fatalf("office line = %q", lines[1])
		}
	})

	t.Run("unknown kind fails", func(t *testing.T) {
		if _, err := NotificationLines(sampleEvent("booking.teleported")); err == nil {
			t.Fatal("expected error for unknown kind")
		}
	})
}
