package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/models"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"plain", "Margherita", "Margherita"},
		{"empty", "", ""},
		{"comma", "Tomato, basil", `"Tomato, basil"`},
		{"quote", `The "special"`, `"The ""special"""`},
		{"newline", "line one\nline two", "\"line one\nline two\""},
		{"comma and quote", `a,"b"`, `"a,""b"""`},
		{"unicode passthrough", "Crème brûlée", "Crème brûlée"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Escape(tt.field); got != tt.want {
				t.Fatalf("Escape(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestEscapePtr(t *testing.T) {
	if got := EscapePtr(nil); got != "" {
		t.Fatalf("EscapePtr(nil) = %q, want empty", got)
	}

	s := "with, comma"
	if got := EscapePtr(&s); got != `"with, comma"` {
		t.Fatalf("EscapePtr = %q", got)
	}
}

func TestWriteScanCSV(t *testing.T) {
	qrID := uuid.New()
	referer := "https://maps.example.com/place?id=1,2"
	events := []models.ScanEvent{
		{
			QRCodeID:  qrID,
			Timestamp: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
			IPAddress: "203.0.113.7",
			UserAgent: `Mozilla/5.0 (X11; Linux) "Gecko"`,
			Referer:   &referer,
		},
		{
			QRCodeID:  qrID,
			Timestamp: time.Date(2026, 3, 14, 9, 27, 0, 0, time.UTC),
			IPAddress: "203.0.113.8",
			UserAgent: "CameraApp/2.0",
			Referer:   nil, // direct camera scan
		},
	}

	var buf bytes.Buffer
	if err := WriteScanCSV(&buf, events); err != nil {
		t.Fatalf("WriteScanCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus two rows", len(lines))
	}
	if lines[0] != "scanned_at,qr_code_id,ip_address,user_agent,referer" {
		t.Fatalf("header = %q", lines[0])
	}

	row := lines[1]
	if !strings.HasPrefix(row, "2026-03-14T09:26:53Z,"+qrID.String()+",") {
		t.Fatalf("row = %q", row)
	}
	if !strings.Contains(row, `"Mozilla/5.0 (X11; Linux) ""Gecko"""`) {
		t.Fatalf("user agent not escaped: %q", row)
	}
	if !strings.HasSuffix(row, `"https://maps.example.com/place?id=1,2"`) {
		t.Fatalf("referer not escaped: %q", row)
	}

	// Absent referer serializes to an empty trailing column
	if !strings.HasSuffix(lines[2], "CameraApp/2.0,") {
		t.Fatalf("nil referer row = %q", lines[2])
	}
}

func TestWriteMenuCSV(t *testing.T) {
	menu := &models.Menu{
		Name: "Dinner",
		Categories: []models.MenuCategory{
			{
				Name: "Starters, cold",
				Items: []models.MenuItem{
					{Name: "Bruschetta", Description: "Bread, tomato", Price: 6.5, IsAvailable: true},
					{Name: "Olives", Description: "", Price: 4, IsAvailable: false},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteMenuCSV(&buf, menu); err != nil {
		t.Fatalf("WriteMenuCSV: %v", err)
	}

	got := buf.String()
	want := "category,item,description,price,available\n" +
		`"Starters, cold",Bruschetta,"Bread, tomato",6.50,true` + "\n" +
		`"Starters, cold",Olives,,4.00,false` + "\n"
	if got != want {
		t.Fatalf("csv mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
