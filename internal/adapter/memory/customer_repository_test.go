package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/YelzhanWeb/tables/internal/domain"
)

func TestCustomerFindByContact(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository()

	c, err := domain.NewCustomer("Aigerim", "+77011234567", "aigerim@example.com", false)
	if err != nil {
		t.Fatalf("NewCustomer: %v", err)
	}
	c.ID = "c1"
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name  string
		phone string
		email string
		found bool
	}{
		{"by phone", "+77011234567", "", true},
		{"by email", "", "aigerim@example.com", true},
		{"email case-insensitive", "", "AIGERIM@Example.COM", true},
		{"wrong phone", "+77000000000", "", false},
		{"both empty", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.FindByContact(ctx, tc.phone, tc.email)
			if tc.found {
				if err != nil {
					t.Fatalf("FindByContact: %v", err)
				}
				if got.ID != "c1" {
					t.Errorf("found %s, want c1", got.ID)
				}
				return
			}
			if !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("got %v, want ErrNotFound", err)
			}
		})
	}
}

func TestCustomerEmptyContactNeverMatchesEmptyFields(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository()

	// A walk-in record with no contact details must not be matched by a
	// phone-only lookup.
	c, err := domain.NewCustomer("Walk In", "", "", true)
	if err != nil {
		t.Fatalf("NewCustomer: %v", err)
	}
	c.ID = "c1"
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.FindByContact(ctx, "", "someone@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
