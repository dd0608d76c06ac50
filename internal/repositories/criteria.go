package repositories

import (
	"fmt"
	"golang-cart-backend/internal/models"
	"strings"

	"github.com/google/uuid"
)

type SortField string

const (
	SortByName      SortField = "name"
	SortByState     SortField = "state"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

func (f SortField) valid() bool {
	switch f {
	case SortByName, SortByState, SortByCreatedAt, SortByUpdatedAt:
		return true
	}
	return false
}

type OrderBy struct {
	Field SortField
	Desc  bool
}

// Criteria filters carts. Zero-valued fields don't filter; a zero Limit
// means no limit.
type Criteria struct {
	IDs     []uuid.UUID
	Name    string
	State   models.CartState
	OrderBy []OrderBy
	Limit   int
	Offset  int
}

func (c Criteria) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidCriteria, c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidCriteria, c.Offset)
	}
	for _, o := range c.OrderBy {
		if !o.Field.valid() {
			return fmt.Errorf("%w: unknown sort field %q", ErrInvalidCriteria, o.Field)
		}
	}
	return nil
}

func (c Criteria) matches(cart *models.Cart) bool {
	if c.Name != "" && cart.Name != c.Name {
		return false
	}
	if c.State != "" && cart.State != c.State {
		return false
	}
	if len(c.IDs) > 0 {
		for _, id := range c.IDs {
			if cart.ID == id {
				return true
			}
		}
		return false
	}
	return true
}

// ParseOrderBy reads "field" or "field:desc", comma separated.
func ParseOrderBy(raw string) ([]OrderBy, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var out []OrderBy
	for _, part := range strings.Split(raw, ",") {
		field, dir, _ := strings.Cut(strings.TrimSpace(part), ":")
		o := OrderBy{Field: SortField(field)}
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			o.Desc = true
		default:
			return nil, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidCriteria, dir)
		}
		if !o.Field.valid() {
			return nil, fmt.Errorf("%w: unknown sort field %q", ErrInvalidCriteria, field)
		}
		out = append(out, o)
	}
	return out, nil
}
