package models

import "time"

// Voucher is a discount code owned by the shop backend. This service only
// reads vouchers to answer validity checks.
type Voucher struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Code          string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"code"`
	Discount      float64    `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	IsActive      bool       `gorm:"default:true;index" json:"is_active"`
	MinOrderTotal float64    `gorm:"type:decimal(12,2);not null;default:0" json:"min_order_total"`
	CustomerID    *uint      `gorm:"index" json:"customer_id,omitempty"`
	UsageLimit    int        `gorm:"not null;default:0" json:"usage_limit"`
	UsedCount     int        `gorm:"not null;default:0" json:"used_count"`
	StartsAt      *time.Time `gorm:"type:timestamp;default:null" json:"starts_at,omitempty"`
	ExpiresAt     *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsExhausted reports whether a limited voucher has been used up.
func (v *Voucher) IsExhausted() bool {
	return v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit
}

// IsRestrictedTo reports whether the voucher may only be used by another customer.
func (v *Voucher) IsRestrictedTo(customerID uint) bool {
	return v.CustomerID != nil && *v.CustomerID != customerID
}
