package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid product input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidName) ||
		errors.Is(err, domain.ErrInvalidSKU) ||
		errors.Is(err, domain.ErrInvalidStock) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidOrderID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
