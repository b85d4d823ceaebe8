package dto

type ChatRequest struct {
	Query string `json:"query" validate:"max=2000"`
}

type ChatResponse struct {
	Answer string  `json:"answer"`
	Page   *int    `json:"page"`
	Link   *string `json:"link"`
}
