package app

type CreateRequest struct {
	BacklogPath string
	Apply       bool
	Record      bool
}

func NewCreateRequest(path string) CreateRequest {
	return CreateRequest{BacklogPath: path, Record: true}
}

// CreatedItem is a backlog row as it was, or would be, created.
type CreatedItem struct {
	RowID         string
	Title         string
	Type          string
	State         string
	Tags          []string
	ParentFeature string
	// TrackerID and ParentID are empty on a dry run.
	TrackerID string
	ParentID  string
}

type CreateResponse struct {
	RunID    string
	Applied  bool
	Items    []CreatedItem
	Skipped  []SkippedItem
	Failures []ItemFailure
	Warnings []string
}
