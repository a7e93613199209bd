package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrAlreadyExists = errors.New("product already exists")
	ErrValidation    = errors.New("invalid product")
)

type Product struct {
	ID          string  `json:"id" dynamodbav:"id"`
	ProductName string  `json:"productName" dynamodbav:"productName"`
	Code        string  `json:"code" dynamodbav:"code"`
	Price       float64 `json:"price" dynamodbav:"price"`
	Model       string  `json:"model" dynamodbav:"model"`
	ProductURL  string  `json:"productUrl,omitempty" dynamodbav:"productUrl,omitempty"`
}

// Input carries the mutable fields of a product as sent by a client.
type Input struct {
	ProductName string   `json:"productName"`
	Code        string   `json:"code"`
	Price       *float64 `json:"price"`
	Model       string   `json:"model"`
	ProductURL  string   `json:"productUrl,omitempty"`
}

// Validate returns an error wrapping ErrValidation when the input cannot be stored.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Code) == "" {
		return fmt.Errorf("%w: code is required", ErrValidation)
	}
	if in.Price == nil {
		return fmt.Errorf("%w: price is required", ErrValidation)
	}
	if *in.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	return nil
}

// Apply copies the mutable fields onto a product with the given id.
func (in Input) Apply(id string) Product {
	p := Product{
		ID:          id,
		ProductName: in.ProductName,
		Code:        in.Code,
		Model:       in.Model,
		ProductURL:  in.ProductURL,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	return p
}

// Repository is the record store for products. Update and Delete are
// conditional on the id being present and return ErrNotFound otherwise.
type Repository interface {
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id string, in Input) (Product, error)
	Delete(ctx context.Context, id string) (Product, error)
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
}
