package orders

import (
	"context"

	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// PricesOf returns the price of every live product among ids.
func (r *repository) PricesOf(ctx context.Context, productIDs []uint) (map[uint]decimal.Decimal, error) {
	out := make(map[uint]decimal.Decimal, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Select("id", "price").
		Where("id IN ?", productIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Price
	}
	return out, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Status", "User", "VendingMachine").Create(order).Error
}

// AddProducts writes one association row per ordered unit.
func (r *repository) AddProducts(ctx context.Context, orderID uint, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	rows := make([]models.OrderProduct, 0, len(productIDs))
	for _, id := range productIDs {
		rows = append(rows, models.OrderProduct{OrderID: orderID, ProductID: id})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) ProductIDsOf(ctx context.Context, orderIDs []uint) (map[uint][]uint, error) {
	out := make(map[uint][]uint, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	var rows []models.OrderProduct
	err := r.db.WithContext(ctx).
		Select("order_id", "product_id").
		Where("order_id IN ?", orderIDs).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.OrderID] = append(out[row.OrderID], row.ProductID)
	}
	return out, nil
}

// ProductsOf returns one product per ordered unit, including products trashed
// since the order was placed.
func (r *repository) ProductsOf(ctx context.Context, orderID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Product{}).
		Joins("JOIN order_products ON order_products.product_id = products.id").
		Where("order_products.order_id = ?", orderID).
		Order("order_products.id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ListForUser returns the user's live orders, narrowed to the status names
// when any are given.
func (r *repository) ListForUser(ctx context.Context, userID uint, statuses []enums.OrderStatus) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Status").
		Where("orders.user_id = ?", userID)
	if len(statuses) > 0 {
		query = query.
			Joins("JOIN statuses ON statuses.id = orders.status_id AND statuses.deleted_at IS NULL").
			Where("statuses.name IN ?", enums.StatusNames(statuses))
	}

	var orders []models.Order
	if err := query.Order("orders.pickup_date ASC").Order("orders.id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// LockersHolding lists the machine's lockers stocked with any of the products.
func (r *repository) LockersHolding(ctx context.Context, machineID uint, productIDs []uint) ([]models.Locker, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var lockers []models.Locker
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("MatrixElement").
		Where("vending_machine_id = ? AND product_id IN ?", machineID, productIDs).
		Order("id ASC").
		Find(&lockers).Error
	if err != nil {
		return nil, err
	}
	return lockers, nil
}
