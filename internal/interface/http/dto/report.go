package dto

// ReportResponse 报表导出结果
type ReportResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Report generated and saved successfully."`
	Path    string `json:"path,omitempty" example:"exports/borrows-by-period/borrows_report_2024-03-15T12-00-00-000Z.csv"`
}
