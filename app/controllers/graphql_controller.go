package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/app/store"
	gql "github.com/shashiranjanraj/giftwheels/pkg/graphql"
)

// NewGraphQLHandler serves read-only catalog queries:
//
//	{ products { id name price stock_quantity stock_status } }
//	{ product(id: 1) { name tags } }
func NewGraphQLHandler(s *store.Store, lowThreshold int) (http.HandlerFunc, error) {
	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description":    &graphql.Field{Type: graphql.String},
			"tags":           &graphql.Field{Type: graphql.NewList(graphql.String)},
			"price":          &graphql.Field{Type: graphql.String},
			"stock_quantity": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"stock_status":   &graphql.Field{Type: graphql.String},
			"in_stock":       &graphql.Field{Type: graphql.Boolean},
			"image_url":      &graphql.Field{Type: graphql.String},
			"created_at":     &graphql.Field{Type: graphql.String},
		},
	})

	toMap := func(p models.Product) map[string]interface{} {
		v := newProductView(p, lowThreshold)
		return map[string]interface{}{
			"id":             int(v.ID),
			"name":           v.Name,
			"description":    v.Description,
			"tags":           v.Tags,
			"price":          v.Price.StringFixed(2),
			"stock_quantity": v.StockQuantity,
			"stock_status":   v.StockStatus,
			"in_stock":       v.InStock,
			"image_url":      v.ImageURL,
			"created_at":     v.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					products, err := s.Products.List(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(products))
					for _, prod := range products {
						out = append(out, toMap(prod))
					}
					return out, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, nil
					}
					prod, err := s.Products.Find(p.Context, uint(id))
					if errors.Is(err, models.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return toMap(prod), nil
				},
			},
		},
	})

	schema, err := gql.NewSchema(query)
	if err != nil {
		return nil, err
	}
	return gql.Handler(schema), nil
}
