package dto

// RetentionSummary reports one batch run. Individual account failures are
// counted, never fatal to the batch.
type RetentionSummary struct {
	Warned  int `json:"warned"`
	Deleted int `json:"deleted"`
	Errors  int `json:"errors"`
}
