package assistant

// AskRequest is the JSON body of POST /api/v1/assistant/ask.
type AskRequest struct {
	Query string `json:"query" validate:"required,notblank,max=4000"`
}

// Answer is the generated response to one query.
type Answer struct {
	Query string `json:"query"`
	Text  string `json:"text"`
}
