package dto

type DraftFilters struct {
	MerchantID  string
	SearchQuery string // product name search
	SortBy      string // name, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
