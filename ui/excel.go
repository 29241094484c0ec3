package ui

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"healthmini/internal/errors"
)

// handleExportUsers streams the user list as an .xlsx workbook.
func (a *App) handleExportUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.c.AdminService.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"User ID", "Full Name", "Email", "Phone", "Plan", "Verified", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			writeError(w, errors.Wrap(err, "writing export header"))
			return
		}
	}

	for row, u := range users {
		values := []interface{}{
			u.ID, u.FullName, u.Email, u.PhoneNumber,
			string(u.SubscriptionPlan), u.EmailVerified,
			u.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				writeError(w, errors.Wrapf(err, "writing export row for user %d", u.ID))
				return
			}
		}
	}

	filename := fmt.Sprintf("users-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(w); err != nil {
		a.log.Error("streaming user export failed: %v", err)
	}
}
