package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/app/services"
	"github.com/shashiranjanraj/giftwheels/pkg/database"
	"github.com/shashiranjanraj/giftwheels/pkg/event"
	"github.com/shashiranjanraj/giftwheels/pkg/testkit"
)

var buyer = models.Customer{Name: "Ana Souza", Phone: "555-0101", Address: "1 Main St"}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.StockQuantity
}

func orderCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Order{}).Count(&n).Error)
	return n
}

func TestPlaceOrder_Succeeds(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	p := testkit.CreateProduct(t, db, "Datsun Bluebird 510", 3)

	receipt, err := services.NewReservationService(db, nil).PlaceOrder(ctx, p.ID, 2, buyer)
	require.NoError(t, err)

	assert.Equal(t, 1, receipt.Stock)
	assert.Equal(t, 1, stockOf(t, db, p.ID))

	var orders []models.Order
	require.NoError(t, db.Find(&orders).Error)
	require.Len(t, orders, 1)
	assert.Equal(t, receipt.Order.ID, orders[0].ID)
	assert.Equal(t, 2, orders[0].Quantity)
	assert.Equal(t, p.ID, orders[0].ProductID)
	assert.Equal(t, "Datsun Bluebird 510", orders[0].ProductName)
	assert.Equal(t, "Ana Souza", orders[0].CustomerName)
	assert.False(t, orders[0].OrderDate.IsZero())
}

func TestPlaceOrder_ExactStockEmptiesProduct(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	p := testkit.CreateProduct(t, db, "car", 2)

	receipt, err := services.NewReservationService(db, nil).PlaceOrder(ctx, p.ID, 2, buyer)
	require.NoError(t, err)
	assert.Zero(t, receipt.Stock)
	assert.Zero(t, stockOf(t, db, p.ID))
}

func TestPlaceOrder_Rejections(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	p := testkit.CreateProduct(t, db, "car", 3)
	engine := services.NewReservationService(db, nil)

	cases := []struct {
		name      string
		productID uint
		quantity  int
		want      error
	}{
		{"zero quantity", p.ID, 0, models.ErrInvalidQuantity},
		{"negative quantity", p.ID, -4, models.ErrInvalidQuantity},
		{"missing product", p.ID + 1000, 1, models.ErrNotFound},
		{"more than stock", p.ID, 4, models.ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.PlaceOrder(ctx, tc.productID, tc.quantity, buyer)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)

			assert.Equal(t, 3, stockOf(t, db, p.ID), "a rejection must not touch stock")
			assert.Zero(t, orderCount(t, db), "a rejection must not record an order")
		})
	}
}

func TestPlaceOrder_InsufficientStockReportsAvailable(t *testing.T) {
	db := testkit.NewDB(t)
	p := testkit.CreateProduct(t, db, "car", 1)

	_, err := services.NewReservationService(db, nil).PlaceOrder(context.Background(), p.ID, 5, buyer)

	var se *models.StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 5, se.Requested)
	assert.Equal(t, 1, se.Available)
}

// Stock plus units sold stays equal to the initial stock across any
// sequence of orders, and stock never drops below zero.
func TestPlaceOrder_ConservesUnits(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	const initial = 20
	p := testkit.CreateProduct(t, db, "car", initial)
	engine := services.NewReservationService(db, nil)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 60; i++ {
		q := rng.Intn(6) - 1
		_, err := engine.PlaceOrder(ctx, p.ID, q, buyer)
		if err != nil {
			assert.True(t, errors.Is(err, models.ErrInvalidQuantity) || errors.Is(err, models.ErrInsufficientStock), "got %v", err)
		}

		stock := stockOf(t, db, p.ID)
		require.GreaterOrEqual(t, stock, 0)

		var sold int
		require.NoError(t, db.Model(&models.Order{}).Where("product_id = ?", p.ID).
			Select("COALESCE(SUM(quantity), 0)").Scan(&sold).Error)
		require.Equal(t, initial, stock+sold)
	}
}

func TestPlaceOrder_ConcurrentBuyersForLastUnits(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	p := testkit.CreateProduct(t, db, "Porsche 911 GT3 RS", 3)
	engine := services.NewReservationService(db, nil)

	const buyers = 12
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		placed     int
		rejected   int
		unexpected []error
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := buyer
			c.Name = fmt.Sprintf("buyer %d", i)
			_, err := engine.PlaceOrder(ctx, p.ID, 1, c)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed++
			case errors.Is(err, models.ErrInsufficientStock):
				rejected++
			default:
				unexpected = append(unexpected, err)
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, 3, placed)
	assert.Equal(t, buyers-3, rejected)
	assert.Zero(t, stockOf(t, db, p.ID))
	assert.EqualValues(t, 3, orderCount(t, db))
}

func TestPlaceOrder_PublishesStockChanged(t *testing.T) {
	db := testkit.NewDB(t)
	p := testkit.CreateProduct(t, db, "car", 4)
	bus := event.NewBus()
	events, cancel := bus.Subscribe(4)
	defer cancel()

	engine := services.NewReservationService(db, bus)
	_, err := engine.PlaceOrder(context.Background(), p.ID, 3, buyer)
	require.NoError(t, err)
	_, err = engine.PlaceOrder(context.Background(), p.ID, 3, buyer)
	require.Error(t, err)

	select {
	case e := <-events:
		assert.Equal(t, models.EventStockChanged, e.Name)
		var change models.StockChanged
		require.NoError(t, json.Unmarshal(e.Data, &change))
		assert.Equal(t, models.StockChanged{ProductID: p.ID, Stock: 1, Reason: models.ReasonOrder}, change)
	case <-time.After(time.Second):
		t.Fatal("no stock.changed event")
	}

	select {
	case e := <-events:
		t.Fatalf("a rejected order must not publish, got %s", e.Name)
	default:
	}
}

func TestPlaceOrder_StorageUnavailable(t *testing.T) {
	db := testkit.NewDB(t)
	p := testkit.CreateProduct(t, db, "car", 4)
	engine := services.NewReservationService(db, nil)
	require.NoError(t, database.Close(db))

	_, err := engine.PlaceOrder(context.Background(), p.ID, 1, buyer)
	assert.True(t, errors.Is(err, database.ErrStorageUnavailable), "got %v", err)
}
