package rabbitmq

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]entity.Product)}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.Upsert(ctx, product)
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repo.ErrProductNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	return nil, repo.ErrProductNotFound
}

func (r *fakeProductRepo) List(ctx context.Context, category string, limit, offset int) ([]entity.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) Search(ctx context.Context, query string, limit int) ([]entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) Upsert(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = *product
	return nil
}

func TestHandleProductSyncUpserts(t *testing.T) {
	productRepo := newFakeProductRepo()
	consumer := NewSyncConsumer(productRepo, nil, nil)

	msg := []byte(`{"id":"p1","name":"Латте","price_cents":21000,"category":"Кофе","barcode":"111","in_stock":true}`)
	err := consumer.HandleProductSync(msg)
	assert.NoError(t, err)

	product, err := productRepo.GetByID(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, "Латте", product.Name)
	assert.Equal(t, int64(21000), product.Price.Cents())

	// Повторное сообщение обновляет существующий товар
	msg = []byte(`{"id":"p1","name":"Латте","price_cents":23000,"category":"Кофе","barcode":"111","in_stock":false}`)
	err = consumer.HandleProductSync(msg)
	assert.NoError(t, err)

	product, _ = productRepo.GetByID(context.Background(), "p1")
	assert.Equal(t, int64(23000), product.Price.Cents())
	assert.False(t, product.InStock)
}

func TestHandleProductSyncRejectsMalformed(t *testing.T) {
	consumer := NewSyncConsumer(newFakeProductRepo(), nil, nil)

	err := consumer.HandleProductSync([]byte("не json"))
	assert.Error(t, err)
}

func TestHandleProductSyncIgnoresInvalid(t *testing.T) {
	productRepo := newFakeProductRepo()
	consumer := NewSyncConsumer(productRepo, nil, nil)

	// Без идентификатора и с отрицательной ценой сообщения игнорируются
	assert.NoError(t, consumer.HandleProductSync([]byte(`{"name":"без id"}`)))
	assert.NoError(t, consumer.HandleProductSync([]byte(`{"id":"p2","price_cents":-5}`)))

	count, _ := productRepo.Count(context.Background())
	assert.Equal(t, int64(0), count)
}
