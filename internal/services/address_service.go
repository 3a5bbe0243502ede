package services

import (
	"context"
	"fmt"
	"strings"

	"tienda/internal/models"
	"tienda/internal/repositories"
)

// AddressService manages the shipping addresses of a user.
type AddressService struct {
	store repositories.Store
}

// NewAddressService creates a new AddressService.
func NewAddressService(store repositories.Store) *AddressService {
	return &AddressService{store: store}
}

// AddressInput is the payload for registering a shipping address.
type AddressInput struct {
	Alias      string `json:"alias" validate:"required,max=50"`
	FullName   string `json:"nombreCompleto" validate:"required,max=100"`
	Phone      string `json:"telefono" validate:"required,max=20"`
	Street     string `json:"calle" validate:"required,max=200"`
	Number     string `json:"numero" validate:"required,max=20"`
	Apartment  string `json:"departamento" validate:"omitempty,max=50"`
	City       string `json:"ciudad" validate:"required,max=100"`
	Region     string `json:"region" validate:"required,max=100"`
	PostalCode string `json:"codigoPostal" validate:"required,max=10"`
	Country    string `json:"pais" validate:"omitempty,max=50"`
	IsPrimary  bool   `json:"esPrincipal"`
}

// CreateAddress stores a new address for userID. A primary address demotes the previous one.
func (s *AddressService) CreateAddress(ctx context.Context, userID uint, in AddressInput) (*models.ShippingAddress, error) {
	address := &models.ShippingAddress{
		UserID:     userID,
		Alias:      strings.TrimSpace(in.Alias),
		FullName:   strings.TrimSpace(in.FullName),
		Phone:      strings.TrimSpace(in.Phone),
		Street:     strings.TrimSpace(in.Street),
		Number:     strings.TrimSpace(in.Number),
		Apartment:  strings.TrimSpace(in.Apartment),
		City:       strings.TrimSpace(in.City),
		Region:     strings.TrimSpace(in.Region),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
		IsPrimary:  in.IsPrimary,
	}
	if address.Country == "" {
		address.Country = models.DefaultCountry
	}

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if address.IsPrimary {
			if err := tx.Addresses().ClearPrimary(ctx, userID); err != nil {
				return err
			}
		}
		return tx.Addresses().Create(ctx, address)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", fromRepo(err))
	}
	return address, nil
}

// ListAddresses returns the addresses of userID, primary first.
func (s *AddressService) ListAddresses(ctx context.Context, userID uint) ([]models.ShippingAddress, error) {
	return s.store.Addresses().ListByUser(ctx, userID)
}

// GetAddress returns address id if it belongs to userID, otherwise ErrNotFound.
func (s *AddressService) GetAddress(ctx context.Context, id, userID uint) (*models.ShippingAddress, error) {
	address, err := s.store.Addresses().GetForUser(ctx, id, userID)
	if err != nil {
		return nil, fromRepo(err)
	}
	return address, nil
}

// DeleteAddress removes address id of userID. Orders keep their recipient snapshot.
func (s *AddressService) DeleteAddress(ctx context.Context, id, userID uint) error {
	if err := s.store.Addresses().Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("failed to delete address %d: %w", id, fromRepo(err))
	}
	return nil
}
