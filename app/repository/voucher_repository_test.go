package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/ManuelReschke/ginee-gateway/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestVoucherRepository_GetByCode(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Voucher{Code: "HEMAT10", Discount: 10000, IsActive: true}).Error)

	repo := NewVoucherRepository(db)

	v, err := repo.GetByCode(context.Background(), " hemat10 ")
	require.NoError(t, err)
	assert.Equal(t, "HEMAT10", v.Code)
	assert.Equal(t, 10000.0, v.Discount)

	_, err = repo.GetByCode(context.Background(), "NOPE")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
