package dto

type CreateGroupInput struct {
	MerchantID string
	Name       string
	SortOrder  int
}

type UpdateGroupInput struct {
	ID         int64
	MerchantID string
	Name       string
	SortOrder  int
	IsActive   bool
}

type AddOptionInput struct {
	GroupID    int64
	MerchantID string
	Label      string
	// Value may arrive as a string or a number from upstream payloads; it is
	// coerced to its canonical string form before it reaches the engine.
	Value     interface{}
	SortOrder int
}

type CreateColorInput struct {
	MerchantID string
	Name       string
	Hex        string
	SortOrder  int
}
