// Package export produces the admin spreadsheet downloads.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Zaid3480/Real-Estate/internal/models"
)

var userSheetHeader = []string{"Full Name", "Mobile No", "Email", "Address", "Verified", "Active", "Created At"}

// WriteUsersExcel writes one sheet listing the given accounts. The
// sheet name appears as the workbook tab ("Users" or "Brokers").
func WriteUsersExcel(w io.Writer, sheetName string, users []models.User) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetName, err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range userSheetHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, user := range users {
		values := []interface{}{
			user.FullName,
			user.MobileNo,
			user.Email,
			user.Address,
			user.IsVerified,
			user.IsActive,
			user.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
