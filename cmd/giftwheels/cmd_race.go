package main

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/pkg/workerpool"
)

var (
	raceProduct  uint
	raceBuyers   int
	raceQuantity int
	raceWorkers  int
)

// giftwheels race
var raceCmd = &cobra.Command{
	Use:   "race",
	Short: "Fire concurrent orders at one product and report the outcome",
	Long: "race places --buyers orders of --quantity units each against one product,\n" +
		"--workers at a time, then checks that sold units plus remaining stock add up.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if raceProduct == 0 {
			return errors.New("--product is required")
		}
		ctx := cmd.Context()

		s, err := bootStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		before, err := s.Products.Find(ctx, raceProduct)
		if err != nil {
			return err
		}

		var placed, rejected, failed atomic.Int64
		pool := workerpool.New(raceWorkers)
		defer pool.Shutdown()

		err = pool.Each(raceBuyers, func(i int) {
			_, err := s.Reservations.PlaceOrder(ctx, raceProduct, raceQuantity, models.Customer{
				Name:    fmt.Sprintf("race buyer %d", i+1),
				Phone:   "000",
				Address: "race",
			})
			switch {
			case err == nil:
				placed.Add(1)
			case errors.Is(err, models.ErrInsufficientStock):
				rejected.Add(1)
			default:
				failed.Add(1)
			}
		})
		if err != nil {
			return err
		}

		after, err := s.Products.Find(ctx, raceProduct)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: stock %d -> %d\n", before.Name, before.StockQuantity, after.StockQuantity)
		fmt.Fprintf(out, "placed %d, rejected %d, failed %d\n", placed.Load(), rejected.Load(), failed.Load())

		sold := int(placed.Load()) * raceQuantity
		if before.StockQuantity-sold != after.StockQuantity {
			return fmt.Errorf("stock mismatch: expected %d, found %d (another writer may have run)",
				before.StockQuantity-sold, after.StockQuantity)
		}
		return nil
	},
}

func init() {
	raceCmd.Flags().UintVar(&raceProduct, "product", 0, "product id")
	raceCmd.Flags().IntVar(&raceBuyers, "buyers", 10, "number of orders to place")
	raceCmd.Flags().IntVar(&raceQuantity, "quantity", 1, "units per order")
	raceCmd.Flags().IntVar(&raceWorkers, "workers", 4, "orders in flight at once")
}
