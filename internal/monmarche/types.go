package monmarche

import "encoding/json"

// ItemDetail is an enriched catalog product.
type ItemDetail struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	PricePerPiece  *string `json:"pricePerPiece"`
	PricePerWeight *string `json:"pricePerWeight"`
	Weight         *string `json:"weight"`
	Link           string  `json:"link"`
	// Error is set only on placeholders for failed detail lookups when
	// per-item failure isolation is enabled.
	Error string `json:"error,omitempty"`
}

// CartLineItem is one product of the remote cart.
type CartLineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    *string `json:"price"` // unit price times quantity
	Link     string  `json:"link"`
}

// CartAck is the backend's acknowledgement of a cart mutation, unmodified.
type CartAck = json.RawMessage

// Status is the success payload of login and clear-cart.
type Status struct {
	Status string `json:"status"`
}

// Credentials identify the account to log in with.
type Credentials struct {
	Email    string `json:"email" mapstructure:"email" validate:"required"`
	Password string `json:"password" mapstructure:"password" validate:"required"`
}

// Wire shapes. Only the fields this client reads are declared; everything
// optional on the backend side is a pointer so absence stays observable.

type sellPrice struct {
	Net  *float64 `json:"net"`
	Unit string   `json:"unit"`
}

type pricing struct {
	SellPrices struct {
		PerPiece      *sellPrice `json:"perPiece"`
		PerWeightUnit *sellPrice `json:"perWeightUnit"`
	} `json:"sellPrices"`
}

type itemWeight struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

type itemDefinition struct {
	Weight *itemWeight `json:"weight"`
}

type searchResponse struct {
	Count int          `json:"count"`
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

type articleDetail struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Slug             string          `json:"slug"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"shortDescription"`
	Pricing          *pricing        `json:"pricing"`
	ItemDefinition   *itemDefinition `json:"itemDefinition"`
}

type cartResponse struct {
	ID       string        `json:"id"`
	Products []cartProduct `json:"products"`
}

type cartProduct struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	Pricing   *pricing `json:"pricing"`
	Quotation *struct {
		Count int `json:"count"`
	} `json:"quotation"`
}

func (p *pricing) perPiece() *sellPrice {
	if p == nil {
		return nil
	}
	return p.SellPrices.PerPiece
}

func (p *pricing) perWeightUnit() *sellPrice {
	if p == nil {
		return nil
	}
	return p.SellPrices.PerWeightUnit
}
