package service

import (
	"regexp"
	"strings"

	"mini-bookstore/internal/model"

	"github.com/shopspring/decimal"
)

var (
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)

	// cart_items.price is NUMERIC(12, 2).
	maxPrice = decimal.New(1, 10)
)

// validateAddress returns model.ErrInvalidAddress carrying one message per bad field.
func validateAddress(a *model.Address) error {
	if a == nil {
		return model.ErrInvalidAddress.WithMessage("Delivery address is required")
	}

	fields := make(map[string]string)

	required := []struct {
		name, value, message string
	}{
		{"fullName", a.FullName, "Full name is required"},
		{"address", a.Address, "Address is required"},
		{"city", a.City, "City is required"},
		{"state", a.State, "State is required"},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			fields[f.name] = f.message
		}
	}

	if !phonePattern.MatchString(a.Phone) {
		fields["phone"] = "Phone number must be 10 digits"
	}
	if !pincodePattern.MatchString(a.Pincode) {
		fields["pincode"] = "Pincode must be 6 digits"
	}

	if len(fields) > 0 {
		return model.ErrInvalidAddress.WithFields(fields)
	}
	return nil
}

func validateCartLine(req *model.AddCartLineRequest) error {
	if req == nil {
		return model.ErrInvalidCartLine
	}

	fields := make(map[string]string)
	if strings.TrimSpace(req.BookID) == "" {
		fields["bookId"] = "Book ID is required"
	}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "Title is required"
	}
	switch {
	case req.Price.IsNegative():
		fields["price"] = "Price cannot be negative"
	case req.Price.GreaterThanOrEqual(maxPrice):
		fields["price"] = "Price is too large"
	case !req.Price.Equal(req.Price.Truncate(2)):
		fields["price"] = "Price cannot have more than 2 decimal places"
	}

	if len(fields) > 0 {
		return model.ErrInvalidCartLine.WithFields(fields)
	}
	return nil
}
