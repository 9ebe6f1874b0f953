package model

import "time"

// TopSellingBook is one row of the monthly best-seller report.
type TopSellingBook struct {
	BookID    string `json:"bookId"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	TotalSold int    `json:"totalSold"`
}

// TopSellingReport is the top-selling books for one calendar month.
type TopSellingReport struct {
	Month       string           `json:"month"`
	Books       []TopSellingBook `json:"books"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// TopSellingResponse represents GET /api/reports/top-selling.
type TopSellingResponse struct {
	Message string           `json:"message"`
	Month   string           `json:"month"`
	Books   []TopSellingBook `json:"books"`
}

// ArchiveResponse reports where a report snapshot was written.
type ArchiveResponse struct {
	Key string `json:"key"`
}
