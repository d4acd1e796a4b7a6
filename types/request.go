package types

type ProcessURLRequest struct {
	URL string `json:"url"`
}
