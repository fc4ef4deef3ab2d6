package domain

import (
	"errors"
	"strings"
	"time"
)

// Customer is a guest record. Walk-in customers are created on admission with
// just a name; scheduled reservations match an existing customer by phone or
// email before creating a new one.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	IsWalkIn  bool
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCustomer(name, phone, email string, walkIn bool) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("customer name is required")
	}
	return &Customer{
		Name:      name,
		Phone:     strings.TrimSpace(phone),
		Email:     strings.TrimSpace(email),
		IsWalkIn:  walkIn,
		Version:   1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// Matches reports whether the customer is identified by the given phone or
// email. Empty query fields never match.
func (c *Customer) Matches(phone, email string) bool {
	if phone != "" && c.Phone == phone {
		return true
	}
	if email != "" && strings.EqualFold(c.Email, email) {
		return true
	}
	return false
}
