package orders

import (
	"context"

	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository defines the order engine's queries beyond the generic store.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	PricesOf(ctx context.Context, productIDs []uint) (map[uint]decimal.Decimal, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	AddProducts(ctx context.Context, orderID uint, productIDs []uint) error
	ProductIDsOf(ctx context.Context, orderIDs []uint) (map[uint][]uint, error)
	ProductsOf(ctx context.Context, orderID uint) ([]models.Product, error)
	ListForUser(ctx context.Context, userID uint, statuses []enums.OrderStatus) ([]models.Order, error)
	LockersHolding(ctx context.Context, machineID uint, productIDs []uint) ([]models.Locker, error)
}
