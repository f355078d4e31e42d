package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/jhoicas/Lubricantes-api/internal/domain"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	"github.com/jhoicas/Lubricantes-api/internal/domain/repository"
)

// InMemoryCompanyStore implementa repository.CompanyRepository.
type InMemoryCompanyStore struct {
	mu    sync.RWMutex
	items map[string]entity.Company
}

var _ repository.CompanyRepository = (*InMemoryCompanyStore)(nil)

func NewInMemoryCompanyStore() *InMemoryCompanyStore {
	return &InMemoryCompanyStore{items: make(map[string]entity.Company)}
}

func (s *InMemoryCompanyStore) Create(_ context.Context, c *entity.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lo.SomeBy(lo.Values(s.items), func(e entity.Company) bool { return e.NIT == c.NIT }) {
		return domain.ErrDuplicate
	}
	s.items[c.ID] = *c
	return nil
}

func (s *InMemoryCompanyStore) GetByID(_ context.Context, id string) (*entity.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *InMemoryCompanyStore) GetByNIT(_ context.Context, nit string) (*entity.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := lo.Find(lo.Values(s.items), func(e entity.Company) bool { return e.NIT == nit })
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *InMemoryCompanyStore) Update(_ context.Context, c *entity.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[c.ID]; !ok {
		return domain.ErrNotFound
	}
	s.items[c.ID] = *c
	return nil
}

func (s *InMemoryCompanyStore) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := lo.Values(s.items)
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return lo.Map(paginate(list, limit, offset), func(c entity.Company, _ int) *entity.Company { return &c }), nil
}

// InMemoryProductStore implementa repository.ProductRepository.
type InMemoryProductStore struct {
	mu    sync.RWMutex
	items map[string]entity.Product
}

var _ repository.ProductRepository = (*InMemoryProductStore)(nil)

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{items: make(map[string]entity.Product)}
}

func (s *InMemoryProductStore) Create(_ context.Context, p *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lo.SomeBy(lo.Values(s.items), func(e entity.Product) bool { return e.Code == p.Code }) {
		return domain.ErrDuplicate
	}
	s.items[p.ID] = *p
	return nil
}

func (s *InMemoryProductStore) GetByID(_ context.Context, id string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *InMemoryProductStore) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := lo.Find(lo.Values(s.items), func(e entity.Product) bool { return e.Code == code })
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *InMemoryProductStore) Update(_ context.Context, p *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[p.ID]; !ok {
		return domain.ErrNotFound
	}
	s.items[p.ID] = *p
	return nil
}

func (s *InMemoryProductStore) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := lo.Values(s.items)
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return lo.Map(paginate(list, limit, offset), func(p entity.Product, _ int) *entity.Product { return &p }), nil
}

// InMemoryUserStore implementa repository.UserRepository.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	items map[string]entity.User
}

var _ repository.UserRepository = (*InMemoryUserStore)(nil)

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{items: make(map[string]entity.User)}
}

func (s *InMemoryUserStore) Create(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lo.SomeBy(lo.Values(s.items), func(e entity.User) bool { return strings.EqualFold(e.Email, u.Email) }) {
		return domain.ErrEmailAlreadyExists
	}
	s.items[u.ID] = *u
	return nil
}

func (s *InMemoryUserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *InMemoryUserStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := lo.Find(lo.Values(s.items), func(e entity.User) bool { return strings.EqualFold(e.Email, email) })
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *InMemoryUserStore) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := lo.Filter(lo.Values(s.items), func(u entity.User, _ int) bool { return u.CompanyID == companyID })
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return lo.Map(paginate(list, limit, offset), func(u entity.User, _ int) *entity.User { return &u }), nil
}

// Delete elimina un usuario (solo para preparar escenarios de test).
func (s *InMemoryUserStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}
