package store

import (
	"context"
	"fmt"

	"pos-service/internal/model"
)

// GetProduct loads one product by ID.
func (s *Store) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product.
func (s *Store) CreateProduct(ctx context.Context, product *model.Product) error {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// UpdateProduct saves changes to an existing product.
func (s *Store) UpdateProduct(ctx context.Context, product *model.Product) error {
	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, err)
	}
	return nil
}

// DeleteProduct soft-deletes a product. Returns the number of rows affected
// so callers can distinguish a missing product.
func (s *Store) DeleteProduct(ctx context.Context, id uint) (int64, error) {
	result := s.db.WithContext(ctx).Delete(&model.Product{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("delete product %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// GetCustomer loads one customer by ID.
func (s *Store) GetCustomer(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer inserts a new customer.
func (s *Store) CreateCustomer(ctx context.Context, customer *model.Customer) error {
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// UpdateCustomer saves changes to an existing customer.
func (s *Store) UpdateCustomer(ctx context.Context, customer *model.Customer) error {
	if err := s.db.WithContext(ctx).Save(customer).Error; err != nil {
		return fmt.Errorf("update customer %d: %w", customer.ID, err)
	}
	return nil
}

// GetUserByUsername loads a user for login.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
