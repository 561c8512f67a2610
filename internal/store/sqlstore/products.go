package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/01moynul/reboot-golang/internal/database"
	"github.com/01moynul/reboot-golang/internal/models"
	"github.com/01moynul/reboot-golang/internal/store"
)

type productRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Image         string    `db:"image"`
	Location      string    `db:"location"`
	Condition     string    `db:"item_condition"`
	Description   string    `db:"description"`
	Phone         string    `db:"phone"`
	YearsOfUse    float64   `db:"years_of_use"`
	OriginalPrice float64   `db:"original_price"`
	ResalePrice   float64   `db:"resale_price"`
	SellerName    string    `db:"seller_name"`
	SellerEmail   string    `db:"seller_email"`
	Category      string    `db:"category"`
	Status        string    `db:"status"`
	Sponsored     bool      `db:"sponsored"`
	PostingDate   time.Time `db:"posting_date"`
}

func (r productRow) model() models.Product {
	return models.Product{
		ID:            r.ID,
		Name:          r.Name,
		Image:         r.Image,
		Location:      r.Location,
		Condition:     r.Condition,
		Description:   r.Description,
		Phone:         r.Phone,
		YearsOfUse:    r.YearsOfUse,
		OriginalPrice: r.OriginalPrice,
		ResalePrice:   r.ResalePrice,
		Seller:        models.Seller{Name: r.SellerName, Email: r.SellerEmail},
		Category:      r.Category,
		Status:        r.Status,
		Sponsored:     r.Sponsored,
		PostingDate:   r.PostingDate,
	}
}

const productColumns = `id, name, image, location, item_condition, description, phone,
	years_of_use, original_price, resale_price, seller_name, seller_email,
	category, status, sponsored, posting_date`

type productRepo struct {
	db *sqlx.DB
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	id := uuid.NewString()
	query := r.db.Rebind(`INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		id, p.Name, p.Image, p.Location, p.Condition, p.Description, p.Phone,
		p.YearsOfUse, p.OriginalPrice, p.ResalePrice, p.Seller.Name, p.Seller.Email,
		p.Category, p.Status, p.Sponsored, p.PostingDate,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID = id
	return nil
}

func (r *productRepo) List(ctx context.Context, f store.ProductFilter) ([]models.Product, error) {
	var w where
	if f.SellerEmail != "" {
		w.add("seller_email = ?", f.SellerEmail)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Category != "" {
		// MySQL's default collation compares case-insensitively.
		if r.db.DriverName() == database.DriverMySQL {
			w.add("category = BINARY ?", f.Category)
		} else {
			w.add("category = ?", f.Category)
		}
	}
	if f.Sponsored != nil {
		w.add("sponsored = ?", *f.Sponsored)
	}
	query, args := limit(`SELECT `+productColumns+` FROM products`+w.String()+` ORDER BY posting_date DESC`, w.args, f.Limit)

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.model())
	}
	return products, nil
}

func (r *productRepo) Get(ctx context.Context, id string) (*models.Product, error) {
	var row productRow
	query := r.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p := row.model()
	return &p, nil
}

func (r *productRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	return res.RowsAffected()
}

func (r *productRepo) MarkSponsored(ctx context.Context, id string) error {
	// RowsAffected is 0 for an already-sponsored row on MySQL, so existence is
	// checked with a read instead.
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	query := r.db.Rebind(`UPDATE products SET sponsored = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, true, id); err != nil {
		return fmt.Errorf("mark product sponsored: %w", err)
	}
	return nil
}
