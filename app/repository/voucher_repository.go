package repository

import (
	"context"
	"strings"

	"github.com/ManuelReschke/ginee-gateway/app/models"
	"gorm.io/gorm"
)

// voucherRepository implements the VoucherRepository interface
type voucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository creates a new voucher repository instance
func NewVoucherRepository(db *gorm.DB) VoucherRepository {
	return &voucherRepository{db: db}
}

// GetByCode looks a voucher up by its code, case-insensitively
func (r *voucherRepository) GetByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}
