package dto

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// PaginationRequest is bound from the query string. Pointers distinguish
// "absent" from an explicit zero.
type PaginationRequest struct {
	Limit  *int `query:"limit" validate:"omitempty,gte=1"`
	Offset *int `query:"offset" validate:"omitempty,gte=0"`
}

// Resolve applies the defaults and clamps limit to MaxPageLimit.
func (p PaginationRequest) Resolve() (limit, offset int) {
	limit, offset = DefaultPageLimit, 0
	if p.Limit != nil {
		limit = *p.Limit
	}
	if p.Offset != nil {
		offset = *p.Offset
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return limit, offset
}
