package domain

// TopProduct is one row of the best-sellers breakdown.
type TopProduct struct {
	ProductID         int64   `json:"productId"`
	ProductName       string  `json:"productName"`
	TotalQuantitySold int     `json:"totalQuantitySold"`
	TotalRevenue      float64 `json:"totalRevenue"`
}

// CategorySales is one row of the per-category revenue breakdown.
type CategorySales struct {
	CategoryID   int64   `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	TotalSales   float64 `json:"totalSales"`
}

// SalesAnalytics is the admin sales report.
type SalesAnalytics struct {
	TotalSales         float64         `json:"totalSales"`
	TotalOrders        int64           `json:"totalOrders"`
	AverageOrderValue  float64         `json:"averageOrderValue"`
	TopSellingProducts []TopProduct    `json:"topSellingProducts"`
	SalesByCategory    []CategorySales `json:"salesByCategory"`
}
