package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/pkg/database"
	"github.com/shashiranjanraj/giftwheels/pkg/event"
	"github.com/shashiranjanraj/giftwheels/pkg/logger"
	"github.com/shashiranjanraj/giftwheels/pkg/metrics"
)

// Receipt is the result of a committed reservation.
type Receipt struct {
	Order models.Order `json:"order"`
	Stock int          `json:"stock"`
}

// ReservationService places orders against the shared stock count.
//
// The product is re-read and the order written in one transaction. The
// decrement is guarded by the stock it requires, so even two transactions
// that both read the last unit cannot both commit: the loser's guarded
// update touches no row and its order is rolled back.
type ReservationService struct {
	db       *gorm.DB
	bus      *event.Bus
	now      func() time.Time
	lockRows bool
}

func NewReservationService(db *gorm.DB, bus *event.Bus) *ReservationService {
	return &ReservationService{
		db:       db,
		bus:      bus,
		now:      time.Now,
		lockRows: database.SupportsRowLocks(db),
	}
}

// PlaceOrder reserves quantity units of a product for a customer.
//
// Errors: models.ErrInvalidQuantity when quantity < 1, models.ErrNotFound
// when the product does not exist, models.ErrInsufficientStock (as a
// *models.StockError) when the store holds fewer units than requested, and
// database.ErrStorageUnavailable when the store cannot be read or written.
// A rejected call leaves no order and no stock change.
func (s *ReservationService) PlaceOrder(ctx context.Context, productID uint, quantity int, c models.Customer) (Receipt, error) {
	start := time.Now()
	log := logger.WithCtx(ctx).With("product_id", productID, "quantity", quantity)

	receipt, err := s.placeOrder(ctx, productID, quantity, c)
	metrics.ObserveReservation(outcome(err), quantity, start)

	if err != nil {
		if errors.Is(err, database.ErrStorageUnavailable) {
			log.Error("reservation failed", "error", err)
		} else {
			log.Info("reservation rejected", "error", err)
		}
		return Receipt{}, err
	}

	log.Info("order placed", "order_id", receipt.Order.ID, "stock", receipt.Stock)
	PublishStockChanged(ctx, s.bus, models.StockChanged{
		ProductID: productID,
		Stock:     receipt.Stock,
		Reason:    models.ReasonOrder,
	})
	return receipt, nil
}

func (s *ReservationService) placeOrder(ctx context.Context, productID uint, quantity int, c models.Customer) (Receipt, error) {
	if quantity < 1 {
		return Receipt{}, models.ErrInvalidQuantity
	}

	var receipt Receipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snapshot, err := s.reread(tx, productID)
		if err != nil {
			return err
		}
		receipt, err = s.commit(tx, snapshot, quantity, c)
		return err
	})
	if err != nil {
		return Receipt{}, classify(err)
	}
	return receipt, nil
}

// reread loads the product inside the transaction, locking its row on
// engines that support SELECT ... FOR UPDATE. SQLite transactions already
// hold the database write lock from BEGIN IMMEDIATE.
func (s *ReservationService) reread(tx *gorm.DB, productID uint) (models.Product, error) {
	q := tx
	if s.lockRows {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var p models.Product
	if err := q.First(&p, productID).Error; err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// commit validates quantity against snapshot, writes the order and takes the
// units out of stock. snapshot may be stale; the guarded decrement is what
// keeps stock from going negative.
func (s *ReservationService) commit(tx *gorm.DB, snapshot models.Product, quantity int, c models.Customer) (Receipt, error) {
	if quantity > snapshot.StockQuantity {
		return Receipt{}, &models.StockError{
			ProductID: snapshot.ID,
			Requested: quantity,
			Available: snapshot.StockQuantity,
		}
	}

	order := models.Order{
		ProductID:    snapshot.ID,
		ProductName:  snapshot.Name,
		CustomerName: strings.TrimSpace(c.Name),
		Phone:        strings.TrimSpace(c.Phone),
		Address:      strings.TrimSpace(c.Address),
		Quantity:     quantity,
		OrderDate:    s.now(),
	}
	if err := tx.Create(&order).Error; err != nil {
		return Receipt{}, fmt.Errorf("insert order: %w", err)
	}

	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", snapshot.ID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return Receipt{}, fmt.Errorf("decrement stock: %w", res.Error)
	}

	stock, err := currentStock(tx, snapshot.ID)
	if err != nil {
		return Receipt{}, err
	}
	if res.RowsAffected == 0 {
		return Receipt{}, &models.StockError{
			ProductID: snapshot.ID,
			Requested: quantity,
			Available: stock,
		}
	}

	return Receipt{Order: order, Stock: stock}, nil
}

func currentStock(tx *gorm.DB, productID uint) (int, error) {
	var stock int
	err := tx.Model(&models.Product{}).Where("id = ?", productID).Select("stock_quantity").Scan(&stock).Error
	if err != nil {
		return 0, fmt.Errorf("read stock: %w", err)
	}
	return stock, nil
}

// classify keeps domain errors as they are and reports everything else as
// the store being unavailable.
func classify(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrNotFound):
		return err
	default:
		return fmt.Errorf("reservation: commit: %w", database.Unavailable(err))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomePlaced
	case errors.Is(err, models.ErrInsufficientStock):
		return metrics.OutcomeInsufficient
	case errors.Is(err, models.ErrInvalidQuantity):
		return metrics.OutcomeInvalid
	case errors.Is(err, models.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, database.ErrStorageUnavailable):
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeError
	}
}
