package repo

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yenminh269/themepark-checkout/internal/security"
	"github.com/yenminh269/themepark-checkout/internal/usecase"
)

var ErrNotFound = errors.New("not found")

// MySQLCheckoutJournal keeps one row per checkout attempt for the ops
// portal. Payment details are PAN-masked and AES-GCM encrypted before
// they touch the table.
type MySQLCheckoutJournal struct {
	db     *sql.DB
	cipher security.CardCipher
}

func NewMySQLCheckoutJournal(db *sql.DB, cipher security.CardCipher) *MySQLCheckoutJournal {
	return &MySQLCheckoutJournal{db: db, cipher: cipher}
}

func (r *MySQLCheckoutJournal) RecordAttempt(ctx context.Context, a *usecase.CheckoutAttempt) error {
	paymentEnc, err := r.encryptPayment(a)
	if err != nil {
		return fmt.Errorf("encrypt payment: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO checkout_attempts (id,session_id,idempotency_key,outcome,grand_total,groups_json,payment_enc,created_at)
VALUES (?,?,?,?,?,?,?,?)
`, a.ID, a.SessionID, a.IdempotencyKey, a.Outcome, a.GrandTotal, a.GroupsJSON, paymentEnc, a.CreatedAt)
	return err
}

func (r *MySQLCheckoutJournal) GetAttempt(ctx context.Context, id string) (*usecase.CheckoutAttempt, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,session_id,idempotency_key,outcome,grand_total,groups_json,created_at
FROM checkout_attempts WHERE id=?`, id)

	var a usecase.CheckoutAttempt
	if err := row.Scan(&a.ID, &a.SessionID, &a.IdempotencyKey, &a.Outcome, &a.GrandTotal, &a.GroupsJSON, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// payment stays sealed; the portal never reads it back through here
	return &a, nil
}

func (r *MySQLCheckoutJournal) encryptPayment(a *usecase.CheckoutAttempt) (string, error) {
	masked := a.Payment
	masked.CardNumber = maskPAN(masked.CardNumber)

	plain, err := json.Marshal(masked)
	if err != nil {
		return "", err
	}
	sealed, err := r.cipher.Encrypt(plain)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// maskPAN keeps the last four digits only.
func maskPAN(pan string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, pan)
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

var _ usecase.CheckoutJournal = (*MySQLCheckoutJournal)(nil)
