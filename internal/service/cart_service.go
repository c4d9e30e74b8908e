// Package service resolves carts for an identity and runs every cart operation
// on the resolved cart handle: item aggregation, pricing, counting, merging
// carts at login and checkout.
package service

import (
	"fmt"

	"github.com/nikolayk812/sqlcart/internal/logger"
	"github.com/nikolayk812/sqlcart/internal/port"
	"github.com/nikolayk812/sqlcart/internal/shipping"
	"golang.org/x/text/currency"
)

type Config struct {
	// Currency of newly created carts. Items priced in another currency are rejected.
	Currency   currency.Unit
	Shipping   shipping.Func
	WeightCost shipping.WeightCostFunc
}

type CartService struct {
	repo     port.CartRepository
	sessions port.SessionStore
	cfg      Config
	log      *logger.Logger
}

func NewCart(repo port.CartRepository, sessions port.SessionStore, cfg Config, log *logger.Logger) (*CartService, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("sessions is nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if cfg.Currency == (currency.Unit{}) {
		return nil, fmt.Errorf("currency is not set")
	}
	if cfg.Shipping == nil {
		cfg.Shipping = shipping.Free
	}
	if cfg.WeightCost == nil {
		cfg.WeightCost = shipping.ZeroCost
	}

	return &CartService{
		repo:     repo,
		sessions: sessions,
		cfg:      cfg,
		log:      log.With("service", "CartService"),
	}, nil
}
