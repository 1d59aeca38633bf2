package models

// Image is a product or line item picture
type Image struct {
	URL string `json:"url"`
}

// CategoryRef is the category summary embedded in a product
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Inventory is carried from the commerce API but never acted on
type Inventory struct {
	Managed   bool `json:"managed"`
	Available int  `json:"available"`
}

// Product represents a product in the catalog
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       Money         `json:"price"`
	Image       *Image        `json:"image"`
	Categories  []CategoryRef `json:"categories"`
	Permalink   string        `json:"permalink,omitempty"`
	SKU         string        `json:"sku,omitempty"`
	SortOrder   int           `json:"sort_order,omitempty"`
	Inventory   *Inventory    `json:"inventory,omitempty"`
	Created     int64         `json:"created,omitempty"`
	Updated     int64         `json:"updated,omitempty"`
}

// InCategory reports whether the product is tagged with the category slug
func (p Product) InCategory(slug string) bool {
	for _, c := range p.Categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

// Category represents a catalog category
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Products    int    `json:"products"`
	Created     int64  `json:"created,omitempty"`
	Updated     int64  `json:"updated,omitempty"`
}

// AddToCartRequest represents a request to add item to cart
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest represents a request to change a line item quantity
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutForm carries the three checkout steps
type CheckoutForm struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
	Country    string `json:"country"`
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
	CardName   string `json:"card_name"`
}

// OrderConfirmation is returned after a successful checkout
type OrderConfirmation struct {
	OrderNumber string `json:"order_number"`
	Total       string `json:"total"`
}
