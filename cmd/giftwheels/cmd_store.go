package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/config"
)

// giftwheels products
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the catalog, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := bootStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		products, err := s.Products.List(cmd.Context())
		if err != nil {
			return err
		}

		low := config.LowStockThreshold()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tSTATUS")
		for _, p := range products {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Price.StringFixed(2), p.StockQuantity, p.StockStatus(low))
		}
		return w.Flush()
	},
}

var ordersProduct uint

// giftwheels orders [--product id]
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List the order ledger, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := bootStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		var orders []models.Order
		if ordersProduct != 0 {
			if _, err := s.Products.Find(cmd.Context(), ordersProduct); err != nil {
				return err
			}
			orders, err = s.Orders.ForProduct(cmd.Context(), ordersProduct)
		} else {
			orders, err = s.Orders.List(cmd.Context())
		}
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tPRODUCT\tQTY\tCUSTOMER\tPHONE")
		for _, o := range orders {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
				o.ID, o.OrderDate.Format("2006-01-02 15:04"), o.ProductName, o.Quantity, o.CustomerName, o.Phone)
		}
		return w.Flush()
	},
}

// giftwheels messages
var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List contact messages, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := bootStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		messages, err := s.Messages.List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tNAME\tPHONE\tMESSAGE")
		for _, m := range messages {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", m.ID, m.Date.Format("2006-01-02 15:04"), m.Name, m.Phone, m.Message)
		}
		return w.Flush()
	},
}

// giftwheels stats
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the dashboard counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := bootStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.Dashboard.Stats(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "Total sales\t%d\n", stats.TotalSales)
		fmt.Fprintf(w, "Catalog size\t%d\n", stats.Products)
		fmt.Fprintf(w, "Out of stock\t%d\n", stats.OutOfStock)
		fmt.Fprintf(w, "Low inventory\t%d\n", stats.LowInventory)
		return w.Flush()
	},
}

// giftwheels stock:set <id> <qty>
var stockSetCmd = &cobra.Command{
	Use:   "stock:set <product-id> <quantity>",
	Short: "Overwrite a product's stock (admin correction)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}

		s, err := bootStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.Catalog.SetStock(cmd.Context(), uint(id), qty)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: stock is now %d\n", p.Name, p.StockQuantity)
		return nil
	},
}

func init() {
	ordersCmd.Flags().UintVar(&ordersProduct, "product", 0, "only orders of this product id")
}
