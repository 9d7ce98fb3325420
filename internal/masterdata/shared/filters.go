package shared

// ListFilters represents standard list page filters
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string
	Status  string
}

const (
	// Default pagination
	DefaultPage  = 1
	DefaultLimit = 15

	// Sort directions
	SortAsc  = "asc"
	SortDesc = "desc"
)
