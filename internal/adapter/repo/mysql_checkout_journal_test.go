package repo_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yenminh269/themepark-checkout/internal/adapter/repo"
	domain "github.com/yenminh269/themepark-checkout/internal/entity"
	"github.com/yenminh269/themepark-checkout/internal/usecase"
)

// captureCipher records what gets sealed so the test can inspect the
// journaled payment payload.
type captureCipher struct {
	plain []byte
}

func (c *captureCipher) Encrypt(p []byte) ([]byte, error) { c.plain = p; return p, nil }
func (c *captureCipher) Decrypt(p []byte) ([]byte, error) { return p, nil }

func attemptFixture() *usecase.CheckoutAttempt {
	return &usecase.CheckoutAttempt{
		ID:             "att-1",
		SessionID:      "sess-1",
		IdempotencyKey: "idem-1",
		Outcome:        "COMPLETED",
		GrandTotal:     "79.02",
		GroupsJSON:     "[]",
		Payment: domain.PaymentMethod{
			Kind:       "card",
			CardNumber: "4111 1111 1111 1111",
			CardHolder: "A Visitor",
		},
		CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordAttemptBindsAttemptTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a := attemptFixture()
	j := repo.NewMySQLCheckoutJournal(db, &captureCipher{})

	mock.ExpectExec("INSERT INTO checkout_attempts").
		WithArgs(a.ID, a.SessionID, a.IdempotencyKey, a.Outcome, a.GrandTotal,
			a.GroupsJSON, sqlmock.AnyArg(), a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, j.RecordAttempt(t.Context(), a))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordAttemptMasksCardNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cipher := &captureCipher{}
	j := repo.NewMySQLCheckoutJournal(db, cipher)

	mock.ExpectExec("INSERT INTO checkout_attempts").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, j.RecordAttempt(t.Context(), attemptFixture()))

	sealed := string(cipher.plain)
	assert.Contains(t, sealed, "************1111")
	assert.NotContains(t, sealed, "4111111111111111")
	assert.NotContains(t, sealed, "4111 1111 1111 1111")
}

func TestGetAttempt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a := attemptFixture()
	j := repo.NewMySQLCheckoutJournal(db, &captureCipher{})

	rows := sqlmock.NewRows([]string{"id", "session_id", "idempotency_key", "outcome", "grand_total", "groups_json", "created_at"}).
		AddRow(a.ID, a.SessionID, a.IdempotencyKey, a.Outcome, a.GrandTotal, a.GroupsJSON, a.CreatedAt)
	mock.ExpectQuery("SELECT .* FROM checkout_attempts WHERE id=").
		WithArgs(a.ID).
		WillReturnRows(rows)

	got, err := j.GetAttempt(t.Context(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Outcome, got.Outcome)
	assert.Equal(t, a.CreatedAt, got.CreatedAt)
	// payment stays sealed in the row, never read back
	assert.Empty(t, got.Payment.CardNumber)
}

func TestGetAttemptNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	j := repo.NewMySQLCheckoutJournal(db, &captureCipher{})
	mock.ExpectQuery("SELECT .* FROM checkout_attempts WHERE id=").
		WillReturnError(sql.ErrNoRows)

	_, err = j.GetAttempt(t.Context(), "nope")
	require.ErrorIs(t, err, repo.ErrNotFound)
}
