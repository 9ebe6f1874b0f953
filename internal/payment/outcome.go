package payment

import (
	"fmt"
	"math/rand"

	"mini-bookstore/internal/model"
)

// Outcome decides how a client-confirmed payment resolves.
type Outcome interface {
	Succeeds(s *model.PaymentSession) bool
}

// TrustClient accepts every client confirmation.
type TrustClient struct{}

func (TrustClient) Succeeds(*model.PaymentSession) bool {
	return true
}

// RandomOutcome succeeds with probability P. Used for demos.
type RandomOutcome struct {
	P    float64
	draw func() float64
}

// NewRandomOutcome creates a RandomOutcome drawing from math/rand.
func NewRandomOutcome(p float64) RandomOutcome {
	return RandomOutcome{P: p, draw: rand.Float64}
}

func (r RandomOutcome) Succeeds(*model.PaymentSession) bool {
	draw := r.draw
	if draw == nil {
		draw = rand.Float64
	}
	return decide(draw(), r.P)
}

func decide(draw, p float64) bool {
	return draw < p
}

// NewOutcome builds the policy named in configuration.
func NewOutcome(name string, p float64) (Outcome, error) {
	switch name {
	case "trust":
		return TrustClient{}, nil
	case "random":
		return NewRandomOutcome(p), nil
	default:
		return nil, fmt.Errorf("unknown payment outcome %q", name)
	}
}
