package domain

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	FullName    string `gorm:"column:full_name;not null" json:"full_name"`
	Email       string `gorm:"column:email;unique;not null" json:"email"`
	IsVerified  bool   `gorm:"column:is_verified;default:false" json:"is_verified"`
	Password    string `gorm:"column:password;not null" json:"-"`
	Role        string `gorm:"column:role;default:customer" json:"role"`
	Age         int    `gorm:"column:age;not null" json:"age"`
	Gender      string `gorm:"column:gender;not null" json:"gender"`
	City        string `gorm:"column:city;not null" json:"city"`
	Occupation  string `gorm:"column:occupation;not null" json:"occupation"`
	LoyaltyTier string `gorm:"column:loyalty_tier;not null" json:"loyalty_tier"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// CustomerProfile is the slice of a user the pricing pipeline reads.
// For guests it is built straight from the request payload.
type CustomerProfile struct {
	Age              int
	Gender           string
	City             string
	Occupation       string
	LoyaltyTier      string
	UserProductCount int
}
