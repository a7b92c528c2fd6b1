package models

import "time"

// CV is the stored metadata for one uploaded resume. ID is a uuid string and
// doubles as the Mongo _id; StoragePath is the canonical location of the bytes
// and the only path consulted on delete.
type CV struct {
	ID           string `bson:"_id" json:"id"` // uuid v4
	UserID       string `bson:"user_id" json:"user_id"`
	FileName     string `bson:"filename" json:"filename"`           // stored name (uuid + ext)
	OriginalName string `bson:"original_name" json:"original_name"` // as uploaded
	FileSize     int64  `bson:"file_size" json:"file_size"`
	StoragePath  string `bson:"file_path" json:"-"`
	ContentType  string `bson:"content_type" json:"content_type"`

	// Populated asynchronously by the extraction worker.
	ExtractedText string `bson:"extracted_text,omitempty" json:"-"`

	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
	LastUsed   time.Time `bson:"last_used" json:"last_used"`
}

// CVSummary is the listing projection returned to clients.
type CVSummary struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
	LastUsed    time.Time `json:"last_used"`
}

func (cv *CV) Summary() CVSummary {
	return CVSummary{
		ID:          cv.ID,
		Filename:    cv.OriginalName,
		Size:        cv.FileSize,
		ContentType: cv.ContentType,
		UploadedAt:  cv.UploadedAt,
		LastUsed:    cv.LastUsed,
	}
}
