package dto

// AssistRequest asks for generated template copy.
type AssistRequest struct {
	Kind    string `json:"kind" validate:"required,oneof=subject intro"`
	Context string `json:"context" validate:"max=2000"`
}

// AssistResponse carries the generated text.
type AssistResponse struct {
	Text string `json:"text"`
}

// VertexGenerateRequest is the adapter-level generation request.
type VertexGenerateRequest struct {
	Model           string
	System          string
	UserMessage     string
	Temperature     *float32
	MaxOutputTokens *int32
}

// VertexGenerateResponse is the adapter-level generation result.
type VertexGenerateResponse struct {
	Text string
}
