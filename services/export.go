package services

import (
	"bytes"
	"fmt"
	"time"

	"site_tools_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// SiteLogFilter narrows a site log listing or export
type SiteLogFilter struct {
	Level  models.LogLevel // Zero means all levels
	Tag    string
	SiteID string
	Since  *time.Time
	Until  *time.Time
	Limit  int
	Offset int
}

// ListSiteLogs returns log entries matching the filter, newest first
func ListSiteLogs(db *gorm.DB, filter SiteLogFilter) ([]models.SiteLog, error) {
	query := db.Model(&models.SiteLog{}).Order("timestamp DESC")
	if filter.Level != 0 {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Tag != "" {
		query = query.Where("tag = ?", filter.Tag)
	}
	if filter.SiteID != "" {
		query = query.Where("site_id = ?", filter.SiteID)
	}
	if filter.Since != nil {
		query = query.Where("timestamp >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("timestamp < ?", *filter.Until)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var entries []models.SiteLog
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list site logs: %w", err)
	}
	return entries, nil
}

// ExportSiteLogsExcel renders log entries matching the filter into an XLSX
// workbook for administrative review
func ExportSiteLogsExcel(db *gorm.DB, filter SiteLogFilter) (*bytes.Buffer, error) {
	entries, err := ListSiteLogs(db, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Site Log"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Timestamp", "Level", "Tag", "Message", "IP", "User", "Object", "Data"}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, entry := range entries {
		userID := ""
		if entry.UserID != nil {
			userID = *entry.UserID
		}
		object := ""
		if entry.HasOwner() {
			object = entry.ObjectKind + "/" + entry.ObjectID
		}
		values := []interface{}{
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Level.String(),
			entry.Tag,
			entry.Message,
			entry.IP,
			userID,
			object,
			entry.Data.String(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write export workbook: %w", err)
	}
	return buf, nil
}
