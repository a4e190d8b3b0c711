package product

import (
	"context"

	"golang.org/x/sync/singleflight"

	"storefront/internal/domain"
	"storefront/internal/shopify"
)

type catalog interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
}

// Service lists storefront products. Concurrent List calls share one
// backend request.
type Service struct {
	catalog catalog
	group   singleflight.Group
}

func New(catalog catalog) *Service {
	return &Service{catalog: catalog}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.group.Do("products", func() (any, error) {
		return s.catalog.FetchProducts(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	products := v.([]domain.Product)
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out, nil
}

// Get returns the product with the given id from the first catalog page. The
// id may be bare or carry the gid prefix.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	want := shopify.TrimGID(shopify.TypeProduct, id)
	if want == "" {
		return nil, domain.ErrNotFound
	}
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if shopify.TrimGID(shopify.TypeProduct, products[i].ID) == want {
			return &products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}
