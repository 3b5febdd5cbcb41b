// Package veo wraps the Vertex AI Veo video generation API: capability
// lookup per model version, request construction for each generation mode,
// and driving the provider's long-running operation to completion.
package veo

// Result is the uniform success value of a generation: every produced output
// locator plus the resolution and duration actually achieved.
type Result struct {
	VideoURIs       []string
	Resolution      string
	DurationSeconds float64
}

// imageRef is the wire shape for an image input.
type imageRef struct {
	GCSURI   string `json:"gcsUri"`
	MimeType string `json:"mimeType,omitempty"`
}

// videoRef is the wire shape for a video input.
type videoRef struct {
	GCSURI   string `json:"gcsUri"`
	MimeType string `json:"mimeType,omitempty"`
}

// referenceImage is the wire shape for an r2v asset or style reference.
type referenceImage struct {
	Image         imageRef `json:"image"`
	ReferenceType string   `json:"referenceType"`
}

// predictInstance is one entry of the predictLongRunning instances array.
type predictInstance struct {
	Prompt          string           `json:"prompt"`
	Image           *imageRef        `json:"image,omitempty"`
	LastFrame       *imageRef        `json:"lastFrame,omitempty"`
	Video           *videoRef        `json:"video,omitempty"`
	ReferenceImages []referenceImage `json:"referenceImages,omitempty"`
}

// predictParameters carries the generation configuration.
type predictParameters struct {
	StorageURI       string `json:"storageUri"`
	SampleCount      int    `json:"sampleCount"`
	AspectRatio      string `json:"aspectRatio"`
	DurationSeconds  int    `json:"durationSeconds"`
	Resolution       string `json:"resolution,omitempty"`
	EnhancePrompt    *bool  `json:"enhancePrompt,omitempty"`
	GenerateAudio    *bool  `json:"generateAudio,omitempty"`
	PersonGeneration string `json:"personGeneration,omitempty"`
	NegativePrompt   string `json:"negativePrompt,omitempty"`
}

// predictRequest is the body posted to :predictLongRunning.
type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

// operationRef is the body posted to :fetchPredictOperation.
type operationRef struct {
	OperationName string `json:"operationName"`
}

// operationError is the provider's operation-level failure detail.
type operationError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// generatedVideo is one output item in a completed operation.
type generatedVideo struct {
	GCSURI   string `json:"gcsUri"`
	MimeType string `json:"mimeType,omitempty"`
}

// operationResponse is the payload of a completed operation.
type operationResponse struct {
	Videos                  []generatedVideo `json:"videos,omitempty"`
	RAIMediaFilteredCount   int              `json:"raiMediaFilteredCount,omitempty"`
	RAIMediaFilteredReasons []string         `json:"raiMediaFilteredReasons,omitempty"`
}

// operation is the long-running operation envelope returned by both the
// submit and fetch endpoints.
type operation struct {
	Name     string             `json:"name"`
	Done     bool               `json:"done,omitempty"`
	Error    *operationError    `json:"error,omitempty"`
	Response *operationResponse `json:"response,omitempty"`
}

// apiErrorResponse is the error body on non-2xx HTTP responses.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
	} `json:"error"`
}
