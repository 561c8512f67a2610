package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/01moynul/reboot-golang/internal/models"
	"github.com/01moynul/reboot-golang/internal/store"
)

type orderRow struct {
	ID              string    `db:"id"`
	BuyerEmail      string    `db:"buyer_email"`
	BuyerName       string    `db:"buyer_name"`
	ProductID       string    `db:"product_id"`
	ProductName     string    `db:"product_name"`
	Price           float64   `db:"price"`
	Phone           string    `db:"phone"`
	MeetingLocation string    `db:"meeting_location"`
	OrderDate       time.Time `db:"order_date"`
}

const orderColumns = `id, buyer_email, buyer_name, product_id, product_name, price, phone, meeting_location, order_date`

type orderRepo struct {
	db *sqlx.DB
}

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	id := uuid.NewString()
	query := r.db.Rebind(`INSERT INTO orders (` + orderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		id, o.BuyerEmail, o.BuyerName, o.ProductID, o.ProductName,
		o.Price, o.Phone, o.MeetingLocation, o.OrderDate,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	o.ID = id
	return nil
}

func (r *orderRepo) List(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	var w where
	if f.BuyerEmail != "" {
		w.add("buyer_email = ?", f.BuyerEmail)
	}
	query, args := limit(`SELECT `+orderColumns+` FROM orders`+w.String()+` ORDER BY order_date DESC`, w.args, f.Limit)

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, models.Order{
			ID:              row.ID,
			BuyerEmail:      row.BuyerEmail,
			BuyerName:       row.BuyerName,
			ProductID:       row.ProductID,
			ProductName:     row.ProductName,
			Price:           row.Price,
			Phone:           row.Phone,
			MeetingLocation: row.MeetingLocation,
			OrderDate:       row.OrderDate,
		})
	}
	return orders, nil
}
