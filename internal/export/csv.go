// Package export renders tenant data as downloadable CSV and PDF files.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/menucraft/menucraft/internal/models"
)

// Escape returns the CSV-safe form of a field: anything containing a comma,
// a double quote or a newline is wrapped in double quotes with inner quotes
// doubled. Plain fields pass through unchanged.
func Escape(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}

	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// EscapePtr handles optional fields; nil serializes to an empty string.
func EscapePtr(field *string) string {
	if field == nil {
		return ""
	}
	return Escape(*field)
}

func writeRow(w io.Writer, fields []string) error {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = Escape(f)
	}

	return writeRawRow(w, escaped)
}

// writeRawRow joins already-escaped fields.
func writeRawRow(w io.Writer, fields []string) error {
	_, err := io.WriteString(w, strings.Join(fields, ",")+"\n")
	return err
}

// WriteScanCSV writes scan events as CSV, one row per scan.
func WriteScanCSV(w io.Writer, events []models.ScanEvent) error {
	header := []string{"scanned_at", "qr_code_id", "ip_address", "user_agent", "referer"}
	if err := writeRow(w, header); err != nil {
		return err
	}

	for _, event := range events {
		row := []string{
			Escape(event.Timestamp.UTC().Format(time.RFC3339)),
			Escape(event.QRCodeID.String()),
			Escape(event.IPAddress),
			Escape(event.UserAgent),
			EscapePtr(event.Referer),
		}
		if err := writeRawRow(w, row); err != nil {
			return err
		}
	}

	return nil
}

// WriteMenuCSV writes a menu's items as CSV, one row per item.
func WriteMenuCSV(w io.Writer, menu *models.Menu) error {
	header := []string{"category", "item", "description", "price", "available"}
	if err := writeRow(w, header); err != nil {
		return err
	}

	for _, category := range menu.Categories {
		for _, item := range category.Items {
			row := []string{
				category.Name,
				item.Name,
				item.Description,
				fmt.Sprintf("%.2f", item.Price),
				fmt.Sprintf("%t", item.IsAvailable),
			}
			if err := writeRow(w, row); err != nil {
				return err
			}
		}
	}

	return nil
}
