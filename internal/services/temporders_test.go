package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/safina/internal/models"
	"github.com/example/safina/internal/money"
)

type fakeTempOrderStorage struct {
	tempOrders map[uuid.UUID]*models.TempOrder

	mergedOrder   *models.Order
	mergedEntries []*models.Transaction
}

func newFakeTempOrderStorage() *fakeTempOrderStorage {
	return &fakeTempOrderStorage{tempOrders: make(map[uuid.UUID]*models.TempOrder)}
}

func (f *fakeTempOrderStorage) GetTempOrderByID(_ context.Context, id uuid.UUID) (*models.TempOrder, error) {
	return f.tempOrders[id], nil
}

func (f *fakeTempOrderStorage) GetSubOrderByID(_ context.Context, id uuid.UUID) (*models.SubOrder, error) {
	for _, tempOrder := range f.tempOrders {
		for i := range tempOrder.SubOrders {
			if tempOrder.SubOrders[i].ID == id {
				return &tempOrder.SubOrders[i], nil
			}
		}
	}
	return nil, nil
}

func (f *fakeTempOrderStorage) CreateTempOrder(_ context.Context, tempOrder *models.TempOrder) error {
	tempOrder.ID = uuid.New()
	for i := range tempOrder.SubOrders {
		tempOrder.SubOrders[i].ID = uuid.New()
		tempOrder.SubOrders[i].TempOrderID = tempOrder.ID
	}
	f.tempOrders[tempOrder.ID] = tempOrder
	return nil
}

func (f *fakeTempOrderStorage) ApplyMerge(_ context.Context, tempOrder *models.TempOrder, subOrder *models.SubOrder, order *models.Order, entries []*models.Transaction) error {
	order.ID = uuid.New()
	f.mergedOrder = order
	f.mergedEntries = entries
	if tempOrder != nil {
		tempOrder.ParentInvoiceID = &order.ID
	}
	if subOrder != nil {
		subOrder.MergedOrderID = &order.ID
	}
	return nil
}

func TestTempOrderTotals(t *testing.T) {
	subOrders := []models.SubOrder{
		{SellingPriceLYD: dec("120"), RemainingAmount: dec("120")},
		{SellingPriceLYD: dec("80"), RemainingAmount: dec("30")},
	}
	total, remaining := Totals(subOrders)
	assert.True(t, dec("200").Equal(total), "total %s", total)
	assert.True(t, dec("150").Equal(remaining), "remaining %s", remaining)
}

func TestTempOrderCreate(t *testing.T) {
	storage := newFakeTempOrderStorage()
	svc := NewTempOrderService(storage, zerolog.Nop())

	tempOrder, err := svc.Create(context.Background(), uuid.New(), "INV-400", dec("5.1"), []SubOrderInput{
		{Description: "shoes", SellingPriceLYD: dec("60")},
		{Description: "bags", SellingPriceLYD: dec("40")},
	})
	require.NoError(t, err)
	require.Len(t, tempOrder.SubOrders, 2)
	assert.False(t, tempOrder.Merged())
	for _, sub := range tempOrder.SubOrders {
		assert.Equal(t, models.OrderStatusPending, sub.ShipmentStatus)
		assert.True(t, sub.SellingPriceLYD.Equal(sub.RemainingAmount))
	}
}

func TestTempOrderCreateValidation(t *testing.T) {
	svc := NewTempOrderService(newFakeTempOrderStorage(), zerolog.Nop())

	_, err := svc.Create(context.Background(), uuid.New(), "INV-401", dec("0"), []SubOrderInput{{SellingPriceLYD: dec("10")}})
	assert.ErrorIs(t, err, money.ErrInvalidRate)

	_, err = svc.Create(context.Background(), uuid.New(), "INV-402", dec("5.1"), nil)
	assert.ErrorIs(t, err, money.ErrInvalidAmount)

	_, err = svc.Create(context.Background(), uuid.New(), "INV-403", dec("5.1"), []SubOrderInput{{SellingPriceLYD: dec("-3")}})
	assert.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestTempOrderMerge(t *testing.T) {
	storage := newFakeTempOrderStorage()
	svc := NewTempOrderService(storage, zerolog.Nop())

	tempOrder, err := svc.Create(context.Background(), uuid.New(), "INV-410", dec("5.1"), []SubOrderInput{
		{SellingPriceLYD: dec("120")},
		{SellingPriceLYD: dec("80")},
	})
	require.NoError(t, err)
	// one line already half paid before the merge
	tempOrder.SubOrders[1].RemainingAmount = dec("30")

	order, err := svc.Merge(context.Background(), tempOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-410-M", order.InvoiceNumber)
	assert.True(t, dec("200").Equal(order.SellingPriceLYD))
	assert.True(t, dec("150").Equal(order.RemainingAmount))
	assert.True(t, tempOrder.ExchangeRate.Equal(order.ExchangeRate))
	assert.True(t, tempOrder.Merged())

	// the debit plus the carried payment must recompute to the same remaining
	require.Len(t, storage.mergedEntries, 2)
	debit, carried := storage.mergedEntries[0], storage.mergedEntries[1]
	assert.Equal(t, models.TransactionTypeOrder, debit.Type)
	assert.True(t, dec("200").Equal(debit.Amount))
	assert.Equal(t, models.TransactionTypePayment, carried.Type)
	assert.True(t, dec("50").Equal(carried.Amount))

	// merging again is rejected
	_, err = svc.Merge(context.Background(), tempOrder.ID)
	assert.ErrorIs(t, err, ErrDoubleMerge)
}

func TestTempOrderMergeUnpaidEmitsNoCarriedPayment(t *testing.T) {
	storage := newFakeTempOrderStorage()
	svc := NewTempOrderService(storage, zerolog.Nop())

	tempOrder, err := svc.Create(context.Background(), uuid.New(), "INV-411", dec("5.1"), []SubOrderInput{
		{SellingPriceLYD: dec("90")},
	})
	require.NoError(t, err)

	_, err = svc.Merge(context.Background(), tempOrder.ID)
	require.NoError(t, err)
	require.Len(t, storage.mergedEntries, 1)
	assert.Equal(t, models.TransactionTypeOrder, storage.mergedEntries[0].Type)
}

func TestTempOrderMergeSubOrder(t *testing.T) {
	storage := newFakeTempOrderStorage()
	svc := NewTempOrderService(storage, zerolog.Nop())

	tempOrder, err := svc.Create(context.Background(), uuid.New(), "INV-420", dec("5.1"), []SubOrderInput{
		{Description: "shoes", SellingPriceLYD: dec("60")},
		{Description: "bags", SellingPriceLYD: dec("40")},
	})
	require.NoError(t, err)
	sub := &tempOrder.SubOrders[0]

	order, err := svc.MergeSubOrder(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.True(t, dec("60").Equal(order.SellingPriceLYD))
	assert.Contains(t, order.InvoiceNumber, "INV-420-L")
	require.NotNil(t, sub.MergedOrderID)
	assert.Equal(t, order.ID, *sub.MergedOrderID)
	// the parent invoice stays live for its other lines
	assert.False(t, tempOrder.Merged())

	_, err = svc.MergeSubOrder(context.Background(), sub.ID)
	assert.ErrorIs(t, err, ErrDoubleMerge)
}

func TestTempOrderMergeSubOrderAfterParentMerge(t *testing.T) {
	storage := newFakeTempOrderStorage()
	svc := NewTempOrderService(storage, zerolog.Nop())

	tempOrder, err := svc.Create(context.Background(), uuid.New(), "INV-421", dec("5.1"), []SubOrderInput{
		{SellingPriceLYD: dec("60")},
	})
	require.NoError(t, err)

	_, err = svc.Merge(context.Background(), tempOrder.ID)
	require.NoError(t, err)

	_, err = svc.MergeSubOrder(context.Background(), tempOrder.SubOrders[0].ID)
	assert.ErrorIs(t, err, ErrDoubleMerge)
}

func TestTempOrderMergeNotFound(t *testing.T) {
	svc := NewTempOrderService(newFakeTempOrderStorage(), zerolog.Nop())

	_, err := svc.Merge(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.MergeSubOrder(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
