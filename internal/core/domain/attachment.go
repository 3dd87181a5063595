package domain

import "time"

// Attachment records file metadata for a task. The file bytes themselves
// live in external storage; only the descriptor is tracked here.
type Attachment struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	Filename   string    `json:"filename" bson:"filename"`
	FileURL    string    `json:"file_url" bson:"file_url"`
	FileSize   int64     `json:"file_size" bson:"file_size"`
	MimeType   string    `json:"mime_type" bson:"mime_type"`
	TaskID     string    `json:"task_id" bson:"task_id"`
	UploadedBy string    `json:"uploaded_by" bson:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
