package persistence

type (
	// Request keeps the upload request data
	Request struct {
		ID          string `bson:"ID"`
		File        string `bson:"file,omitempty"`
		S3Key       string `bson:"s3Key,omitempty"`
		Diarization bool   `bson:"diarization,omitempty"`
		Language    string `bson:"language,omitempty"`
		Task        string `bson:"task,omitempty"`
	}

	// Status keeps the job status record
	Status struct {
		ID     string `bson:"ID"`
		Status string `bson:"status,omitempty"`
		Error  string `bson:"error,omitempty"`
	}

	// Result keeps the raw transcription payload pushed by the worker
	Result struct {
		ID      string `bson:"ID"`
		Payload string `bson:"payload,omitempty"`
	}
)
