package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/giftwheels/app/repositories"
	"github.com/shashiranjanraj/giftwheels/app/services"
	"github.com/shashiranjanraj/giftwheels/pkg/testkit"
)

func TestDashboardService_Stats(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	gt3 := testkit.CreateProduct(t, db, "gt3", 8)
	testkit.CreateProduct(t, db, "510", 3)
	testkit.CreateProduct(t, db, "sold out", 0)

	engine := services.NewReservationService(db, nil)
	_, err := engine.PlaceOrder(ctx, gt3.ID, 4, buyer)
	require.NoError(t, err)
	_, err = engine.PlaceOrder(ctx, gt3.ID, 1, buyer)
	require.NoError(t, err)

	dash := services.NewDashboardService(repositories.NewProductRepository(db), repositories.NewOrderRepository(db), 5)
	stats, err := dash.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, services.Stats{TotalSales: 2, Products: 3, OutOfStock: 1, LowInventory: 2}, stats)
}
