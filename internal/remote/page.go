package remote

// Page is one page of a paginated listing.
//
// PageCount comes from the X-Pagination-Page-Count header and is 0 when the
// server did not send it; callers then fall back to "a full page means there
// may be more".
type Page[T any] struct {
	Items     []T
	Page      int
	Limit     int
	PageCount int
	ItemCount int
}

// HasMore reports whether another page should be requested after this one.
func (p Page[T]) HasMore() bool {
	if p.PageCount > 0 {
		return p.Page < p.PageCount
	}
	return p.Limit > 0 && len(p.Items) >= p.Limit
}
