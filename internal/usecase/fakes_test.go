package usecase_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/yenminh269/themepark-checkout/internal/entity"
	"github.com/yenminh269/themepark-checkout/internal/usecase"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeArchive is an in-memory CartArchive.
type fakeArchive struct {
	saved    map[string][]domain.LineItem
	failSave bool
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{saved: map[string][]domain.LineItem{}}
}

func (a *fakeArchive) Save(_ context.Context, sessionID string, lines []domain.LineItem) error {
	if a.failSave {
		return fmt.Errorf("archive down")
	}
	cp := make([]domain.LineItem, len(lines))
	copy(cp, lines)
	a.saved[sessionID] = cp
	return nil
}

func (a *fakeArchive) Load(_ context.Context, sessionID string) ([]domain.LineItem, bool, error) {
	lines, ok := a.saved[sessionID]
	return lines, ok, nil
}

func (a *fakeArchive) Delete(_ context.Context, sessionID string) error {
	delete(a.saved, sessionID)
	return nil
}

// fakeStock serves canned stock levels keyed by (storeID, itemID).
type fakeStock struct {
	levels map[[2]int64]int
	err    error
}

func (s *fakeStock) Stock(_ context.Context, storeID, itemID int64) (int, bool, error) {
	if s.err != nil {
		return 0, false, s.err
	}
	qty, ok := s.levels[[2]int64{storeID, itemID}]
	return qty, ok, nil
}

// fakePersistence records submissions in order and fails the groups
// named in fail. Group keys: "ride" or "store:<id>".
type fakePersistence struct {
	calls []string
	reqs  []domain.OrderRequest
	fail  map[string]error
}

func groupKey(req domain.OrderRequest) string {
	if req.Type == domain.ItemTypeRide {
		return "ride"
	}
	return fmt.Sprintf("store:%d", req.StoreID)
}

func (p *fakePersistence) create(req domain.OrderRequest) (domain.OrderRecord, error) {
	key := groupKey(req)
	p.calls = append(p.calls, key)
	p.reqs = append(p.reqs, req)
	if err := p.fail[key]; err != nil {
		return domain.OrderRecord{}, err
	}
	return domain.OrderRecord{
		OrderID:   uuid.NewString(),
		Type:      req.Type,
		StoreID:   req.StoreID,
		Total:     req.Total,
		CreatedAt: time.Now(),
	}, nil
}

func (p *fakePersistence) CreateRideOrder(_ context.Context, req domain.OrderRequest) (domain.OrderRecord, error) {
	return p.create(req)
}

func (p *fakePersistence) CreateStoreOrder(_ context.Context, req domain.OrderRequest) (domain.OrderRecord, error) {
	return p.create(req)
}

type fakeJournal struct {
	attempts []*usecase.CheckoutAttempt
}

func (j *fakeJournal) RecordAttempt(_ context.Context, a *usecase.CheckoutAttempt) error {
	j.attempts = append(j.attempts, a)
	return nil
}

func (j *fakeJournal) GetAttempt(_ context.Context, id string) (*usecase.CheckoutAttempt, error) {
	for _, a := range j.attempts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

type fakeIdem struct {
	locks  map[string]bool
	memory map[string]string
}

func newFakeIdem() *fakeIdem {
	return &fakeIdem{locks: map[string]bool{}, memory: map[string]string{}}
}

func (i *fakeIdem) TryLock(_ context.Context, scope, key string) (bool, error) {
	k := scope + ":" + key
	if i.locks[k] {
		return false, nil
	}
	i.locks[k] = true
	return true, nil
}

func (i *fakeIdem) Remember(_ context.Context, scope, key, value string) error {
	i.memory[scope+":"+key] = value
	return nil
}

func (i *fakeIdem) Recall(_ context.Context, scope, key string) (string, bool, error) {
	v, ok := i.memory[scope+":"+key]
	return v, ok, nil
}

type fakeEvents struct {
	msgs []usecase.CheckoutCompletedMsg
}

func (e *fakeEvents) PublishCheckoutCompleted(_ context.Context, msg usecase.CheckoutCompletedMsg) error {
	e.msgs = append(e.msgs, msg)
	return nil
}
