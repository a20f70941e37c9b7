package domain

import "time"

type Cart struct {
	ID         string     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     string     `bson:"user_id" json:"userId"`
	Items      []LineItem `bson:"items" json:"products"`
	TotalPrice float64    `bson:"total_price" json:"totalPrice"`
	CreatedAt  time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updatedAt"`
}

// LineItem is one (product, quantity) pair. A cart holds at most one
// line item per product id.
type LineItem struct {
	ProductID int64     `bson:"product_id" json:"productId"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"addedAt"`
}

// FindItem returns the index of the line item for productID, or -1.
func (c *Cart) FindItem(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// CartDetail is a cart with each line item's product expanded for display.
type CartDetail struct {
	ID         string           `json:"id,omitempty"`
	UserID     string           `json:"userId"`
	Items      []LineItemDetail `json:"products"`
	TotalPrice float64          `json:"totalPrice"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

type LineItemDetail struct {
	Product  *Product  `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}
