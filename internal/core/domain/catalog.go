package domain

// Category groups products for storefront navigation.
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ProductCount int    `json:"productCount"`
}

// CategoryRequest is the admin payload for creating or replacing a category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// Product is a catalog entry as the API returns it, including the
// denormalized category name.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	ImageURL      string  `json:"imageUrl"`
	CategoryID    int64   `json:"categoryId"`
	CategoryName  string  `json:"categoryName"`
	Active        bool    `json:"active"`
}

// ProductRequest is the admin payload for creating or replacing a product.
type ProductRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Description   string  `json:"description" validate:"max=2000"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	StockQuantity int     `json:"stockQuantity" validate:"gte=0"`
	ImageURL      string  `json:"imageUrl"`
	CategoryID    int64   `json:"categoryId" validate:"required,gt=0"`
	Active        bool    `json:"active"`
}

// Page is one page of a listing endpoint.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}
