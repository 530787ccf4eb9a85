package domain

import "time"

// CREATE TABLE public.purchases (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id          BIGINT NOT NULL,
//     product_name     TEXT NOT NULL,
//     product_category TEXT NOT NULL,
//     original_price   NUMERIC NOT NULL,
//     quantity         INTEGER NOT NULL,
//     purchase_date    TIMESTAMPTZ DEFAULT NOW()
// );

type Purchase struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint      `gorm:"column:user_id;not null" json:"user_id"`
	ProductName     string    `gorm:"column:product_name;type:text;not null" json:"product_name"`
	ProductCategory string    `gorm:"column:product_category;type:text;not null" json:"product_category"`
	OriginalPrice   float64   `gorm:"column:original_price;type:numeric;not null" json:"original_price"`
	Quantity        int       `gorm:"column:quantity;not null" json:"quantity"`
	PurchaseDate    time.Time `gorm:"column:purchase_date;autoCreateTime" json:"purchase_date"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// CartItem is one entry of a checkout payload. Original price falls back
// to the displayed price when the widget only sent the latter.
type CartItem struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	OriginalPrice float64 `json:"original_price"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
}
