package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kolyapvp/products-app/internal/domain/product"
)

const uniqueViolation = "23505"

const productColumns = `id, product_name, code, price, model, product_url`

type ProductRepository struct {
	db DB
}

func NewProductRepository(db DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p product.Product) (product.Product, error) {
	const sql = `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns

	created, err := scanProduct(r.db.QueryRow(ctx, sql,
		p.ID, p.ProductName, p.Code, p.Price, p.Model, p.ProductURL))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return product.Product{}, product.ErrAlreadyExists
		}
		return product.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return created, nil
}

// Update rewrites the mutable columns in a single statement; a missing row
// yields no RETURNING row and maps to ErrNotFound.
func (r *ProductRepository) Update(ctx context.Context, id string, in product.Input) (product.Product, error) {
	const sql = `
		UPDATE products
		SET product_name = $2, code = $3, price = $4, model = $5, product_url = $6
		WHERE id = $1
		RETURNING ` + productColumns

	p := in.Apply(id)
	updated, err := scanProduct(r.db.QueryRow(ctx, sql,
		id, p.ProductName, p.Code, p.Price, p.Model, p.ProductURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return product.Product{}, product.ErrNotFound
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("update product: %w", err)
	}

	return updated, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (product.Product, error) {
	const sql = `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns

	deleted, err := scanProduct(r.db.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return product.Product{}, product.ErrNotFound
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("delete product: %w", err)
	}

	return deleted, nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (product.Product, error) {
	const sql = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return product.Product{}, product.ErrNotFound
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("get product by id: %w", err)
	}

	return p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	const sql = `SELECT ` + productColumns + ` FROM products ORDER BY id`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []product.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func scanProduct(row pgx.Row) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.ProductName, &p.Code, &p.Price, &p.Model, &p.ProductURL)
	return p, err
}
