package orders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/angelmondragon/lockerbox-backend/internal/lockers"
	"github.com/angelmondragon/lockerbox-backend/internal/repo"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
	"github.com/angelmondragon/lockerbox-backend/pkg/metrics"
	"github.com/angelmondragon/lockerbox-backend/pkg/outbox"
	"github.com/angelmondragon/lockerbox-backend/pkg/outbox/payloads"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type ServiceParams struct {
	DB       *gorm.DB
	Repo     Repository
	Tx       txRunner
	Outbox   outboxPublisher
	Metrics  *metrics.OrderMetrics
	Logger   *logger.Logger
	Location *time.Location
}

// Service places orders, prices them and classifies them for pickup.
type Service struct {
	*repo.Store[models.Order]
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	users    *repo.Store[models.User]
	machines *repo.Store[models.VendingMachine]
	statuses *repo.Store[models.Status]
	metrics  *metrics.OrderMetrics
	logg     *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewService builds the order engine with the required dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("orders database required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	repository := params.Repo
	if repository == nil {
		repository = NewRepository(params.DB)
	}
	loc := params.Location
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		Store:    repo.NewStore[models.Order](params.DB, "order"),
		repo:     repository,
		tx:       params.Tx,
		outbox:   params.Outbox,
		users:    repo.NewStore[models.User](params.DB, "user"),
		machines: repo.NewStore[models.VendingMachine](params.DB, "vending machine"),
		statuses: repo.NewStore[models.Status](params.DB, "status"),
		metrics:  params.Metrics,
		logg:     params.Logger,
		loc:      loc,
		now:      time.Now,
	}, nil
}

// Get loads an order with its status and product ids.
func (s *Service) Get(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.GetWith(ctx, id, "Status")
	if err != nil {
		return nil, err
	}
	if err := s.attachProducts(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) Restore(ctx context.Context, id uint) (*models.Order, error) {
	if _, err := s.Store.Restore(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Create prices the products server side and stores the order, its product
// rows and an order_created event atomically.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	order, err := s.create(ctx, input)
	if err != nil {
		s.metrics.IncFailed(failureReason(err))
		return nil, err
	}
	s.metrics.ObserveCreated(order.Price)
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id":           order.ID,
			"vending_machine_id": order.VendingMachineID,
			"price":              order.Price.String(),
		})
		s.logg.Info(logCtx, "order created")
	}
	return order, nil
}

func (s *Service) create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Exists(ctx, input.UserID); err != nil {
			return err
		}
		if err := s.machines.WithTx(tx).Exists(ctx, input.VendingMachineID); err != nil {
			return err
		}
		status, err := s.statuses.WithTx(tx).Get(ctx, input.StatusID)
		if err != nil {
			return err
		}

		txRepo := s.repo.WithTx(tx)
		prices, err := txRepo.PricesOf(ctx, input.Products)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product prices")
		}
		total, err := sumPrices(input.Products, prices)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:           input.UserID,
			StatusID:         input.StatusID,
			VendingMachineID: input.VendingMachineID,
			Price:            total,
			PickupDate:       input.PickupDate,
		}
		if err := txRepo.CreateOrder(ctx, &order); err != nil {
			return repo.TranslateError(err, "order", "create")
		}
		if err := txRepo.AddProducts(ctx, order.ID, input.Products); err != nil {
			return repo.TranslateError(err, "order product", "create")
		}
		order.Status = status
		order.ProductIDs = append([]uint(nil), input.Products...)

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:   enums.EventOrderCreated,
			AggregateID: order.ID,
			Actor:       &outbox.ActorRef{UserID: order.UserID},
			Data: payloads.OrderCreatedEvent{
				OrderID:          order.ID,
				UserID:           order.UserID,
				VendingMachineID: order.VendingMachineID,
				StatusID:         order.StatusID,
				Price:            order.Price,
				PickupDate:       order.PickupDate,
				ProductIDs:       order.ProductIDs,
			},
		})
	})
	if err != nil {
		return nil, repo.TranslateError(err, "order", "create")
	}
	return &order, nil
}

func validateCreate(input CreateInput) error {
	missing := map[string]string{}
	if input.UserID == 0 {
		missing["userId"] = "is required"
	}
	if input.StatusID == 0 {
		missing["statusId"] = "is required"
	}
	if input.VendingMachineID == 0 {
		missing["vendingMachineId"] = "is required"
	}
	if input.PickupDate.IsZero() {
		missing["pickupDate"] = "is required"
	}
	if len(input.Products) == 0 {
		missing["products"] = "must list at least one product id"
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order").WithDetails(missing)
	}
	return nil
}

// sumPrices adds one price per listed id, so duplicates count once per unit.
func sumPrices(ids []uint, prices map[uint]decimal.Decimal) (decimal.Decimal, error) {
	if len(prices) == 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodePriceCompute, "no priceable products in order").
			WithDetails(map[string]any{"products": ids})
	}

	total := decimal.Zero
	var unresolved []uint
	seen := map[uint]struct{}{}
	for _, id := range ids {
		price, ok := prices[id]
		if !ok {
			if _, dup := seen[id]; !dup {
				unresolved = append(unresolved, id)
				seen[id] = struct{}{}
			}
			continue
		}
		total = total.Add(price)
	}
	if len(unresolved) > 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "some products do not exist").
			WithDetails(map[string]any{"missingProductIds": unresolved})
	}
	return total, nil
}

// Update changes the status or pickup date. A status change is published.
func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*models.Order, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.Store.WithTx(tx)
		current, err := store.Get(ctx, id)
		if err != nil {
			return err
		}

		fields := map[string]any{}
		if input.PickupDate != nil {
			if input.PickupDate.IsZero() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid order").
					WithDetails(map[string]string{"pickupDate": "is required"})
			}
			fields["pickup_date"] = *input.PickupDate
		}

		var next *models.Status
		if input.StatusID != nil && *input.StatusID != current.StatusID {
			next, err = s.statuses.WithTx(tx).Get(ctx, *input.StatusID)
			if err != nil {
				return asReference(err, "statusId")
			}
			fields["status_id"] = next.ID
		}

		if _, err := store.Patch(ctx, id, fields); err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		phase := next.OrderStatus()
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:   enums.EventOrderStatusChanged,
			AggregateID: current.ID,
			Actor:       &outbox.ActorRef{UserID: current.UserID},
			Data: payloads.OrderStatusChangedEvent{
				OrderID:      current.ID,
				UserID:       current.UserID,
				FromStatusID: current.StatusID,
				ToStatusID:   next.ID,
				ToStatusName: next.Name,
				Active:       phase.IsActive(),
				Archived:     phase.IsArchived(),
			},
		})
	})
	if err != nil {
		return nil, repo.TranslateError(err, "order", "update")
	}
	return s.Get(ctx, id)
}

// Products returns one product per ordered unit.
func (s *Service) Products(ctx context.Context, orderID uint) ([]models.Product, error) {
	if err := s.Exists(ctx, orderID); err != nil {
		return nil, err
	}
	products, err := s.repo.ProductsOf(ctx, orderID)
	if err != nil {
		return nil, s.Translate(err, "list products of")
	}
	return products, nil
}

// ForUser lists every live order of the user.
func (s *Service) ForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.listForUser(ctx, userID, nil)
}

// Active lists orders in an active status whose pickup is today or later.
func (s *Service) Active(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.listForUser(ctx, userID, enums.ActiveOrderStatuses)
	if err != nil {
		return nil, err
	}

	now := s.now()
	active := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.PickupDate.IsZero() {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "order_id", order.ID), "order has no usable pickup date")
			}
			continue
		}
		if pickupPending(order.PickupDate, now, s.loc) {
			active = append(active, order)
		}
	}
	return active, nil
}

// Archive lists orders in an archived status regardless of pickup date.
func (s *Service) Archive(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.listForUser(ctx, userID, enums.ArchivedOrderStatuses)
}

func (s *Service) listForUser(ctx context.Context, userID uint, set []enums.OrderStatus) ([]models.Order, error) {
	if err := s.users.Exists(ctx, userID); err != nil {
		return nil, err
	}
	orders, err := s.repo.ListForUser(ctx, userID, set)
	if err != nil {
		return nil, s.Translate(err, "list")
	}
	refs := make([]*models.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := s.attachProducts(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

// Fulfillment lists the lockers of the order's machine stocked with one of
// its products, i.e. the candidate pickup cells.
func (s *Service) Fulfillment(ctx context.Context, orderID uint) ([]models.Locker, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	found, err := s.repo.LockersHolding(ctx, order.VendingMachineID, distinct(order.ProductIDs))
	if err != nil {
		return nil, s.Translate(err, "list lockers of")
	}
	for i := range found {
		lockers.Locate(&found[i])
	}
	return found, nil
}

func (s *Service) attachProducts(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uint, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}
	byOrder, err := s.repo.ProductIDsOf(ctx, ids)
	if err != nil {
		return s.Translate(err, "list products of")
	}
	for _, order := range orders {
		order.ProductIDs = byOrder[order.ID]
	}
	return nil
}

func distinct(ids []uint) []uint {
	set := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := set[id]; ok {
			continue
		}
		set[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func asReference(err error, field string) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "referenced record does not exist").
			WithDetails(map[string]string{field: "not found"})
	}
	return err
}

func failureReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return metrics.OrderFailurePersistence
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		return metrics.OrderFailureValidation
	case pkgerrors.CodePriceCompute:
		return metrics.OrderFailurePrice
	case pkgerrors.CodeNotFound:
		return metrics.OrderFailureNotFound
	default:
		return metrics.OrderFailurePersistence
	}
}
