package admin

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeaders = []string{
	"ID", "Customer", "Service", "Price", "Booking date", "Status",
	"Name", "Contact number", "Address", "Created at",
}

// ExportBookings writes the bookings matching q as an .xlsx workbook to w
// and returns the number of data rows.
func (s *Service) ExportBookings(ctx context.Context, q BookingListQuery, w io.Writer) (int, error) {
	f, err := s.toFilter(q)
	if err != nil {
		return 0, err
	}
	f.Limit = exportLimit

	rows, _, err := s.bookings.Filter(ctx, f)
	if err != nil {
		return 0, err
	}

	xf := excelize.NewFile()
	defer xf.Close()

	if err := xf.SetSheetName("Sheet1", exportSheet); err != nil {
		return 0, fmt.Errorf("error renaming sheet: %w", err)
	}

	headerStyle, err := xf.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return 0, fmt.Errorf("error creating style: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := xf.SetCellValue(exportSheet, cell, h); err != nil {
			return 0, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := xf.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle); err != nil {
		return 0, err
	}

	for i, b := range rows {
		customer, service, price := "", "", ""
		if b.Customer != nil {
			customer = b.Customer.Username
		}
		if b.Service != nil {
			service = b.Service.Name
			price = b.Service.Price.StringFixed(2)
		}

		values := []any{
			b.ID,
			customer,
			service,
			price,
			b.BookingDateTime.In(s.loc).Format("2006-01-02 15:04"),
			string(b.Status),
			b.Name,
			b.ContactNumber,
			b.Address,
			b.CreatedAt.In(s.loc).Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := xf.SetSheetRow(exportSheet, cell, &values); err != nil {
			return 0, fmt.Errorf("error writing row: %w", err)
		}
	}

	if err := xf.SetColWidth(exportSheet, "B", "C", 20); err != nil {
		return 0, err
	}
	if err := xf.SetColWidth(exportSheet, "E", "E", 18); err != nil {
		return 0, err
	}

	if err := xf.Write(w); err != nil {
		return 0, fmt.Errorf("error writing workbook: %w", err)
	}
	return len(rows), nil
}
