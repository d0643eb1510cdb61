package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/menucraft/menucraft/internal/models"
)

// MenuPDF renders a printable menu with its categories and items.
func MenuPDF(restaurant *models.Restaurant, menu *models.Menu) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(menu.Name, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, restaurant.Name, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, menu.Name, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	for _, category := range menu.Categories {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 9, category.Name, "B", 1, "L", false, 0, "")
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "", 11)
		for _, item := range category.Items {
			if !item.IsAvailable {
				continue
			}

			price := fmt.Sprintf("%.2f %s", item.Price, menu.Currency)
			pdf.CellFormat(150, 7, item.Name, "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 7, price, "", 1, "R", false, 0, "")

			if item.Description != "" {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.MultiCell(150, 5, item.Description, "", "L", false)
				pdf.SetFont("Helvetica", "", 11)
			}
		}

		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
