// Package services holds the store's business operations that span more
// than one table.
package services

import (
	"context"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/pkg/event"
	"github.com/shashiranjanraj/giftwheels/pkg/logger"
)

// PublishStockChanged tells bus subscribers that a product's stock moved.
// A nil bus is a no-op.
func PublishStockChanged(ctx context.Context, bus *event.Bus, change models.StockChanged) {
	if bus == nil {
		return
	}
	e, err := event.New(models.EventStockChanged, change)
	if err != nil {
		logger.WithCtx(ctx).Error("stock event not published", "product_id", change.ProductID, "error", err)
		return
	}
	bus.Publish(e)
}
