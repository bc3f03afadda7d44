package models

import "time"

// UploadRecord is the Firestore document describing one uploaded file.
// It is created at upload time and treated as read-only by the extraction
// flow; deletion is a soft delete (IsActive = false), and inactive records
// are invisible to the chat pipeline.
type UploadRecord struct {
	UploadID         string     `firestore:"uploadId" json:"uploadId"`
	UserID           string     `firestore:"userId,omitempty" json:"userId,omitempty"`
	OriginalName     string     `firestore:"originalName" json:"originalName"`
	FileName         string     `firestore:"fileName" json:"fileName"`
	StorageKey       string     `firestore:"storageKey" json:"storageKey"`
	PresignedURL     string     `firestore:"presignedUrl,omitempty" json:"presignedUrl,omitempty"`
	SizeBytes        int64      `firestore:"sizeBytes" json:"sizeBytes"`
	MimeType         string     `firestore:"mimeType" json:"mimeType"`
	FileExtension    string     `firestore:"fileExtension,omitempty" json:"fileExtension,omitempty"`
	ParserCompatible bool       `firestore:"parserCompatible" json:"parserCompatible"`
	DownloadCount    int64      `firestore:"downloadCount" json:"downloadCount"`
	IsActive         bool       `firestore:"isActive" json:"isActive"`
	UploadedAt       time.Time  `firestore:"uploadedAt" json:"uploadedAt"`
	LastAccessedAt   time.Time  `firestore:"lastAccessedAt,omitempty" json:"lastAccessedAt,omitempty"`
	DeletedAt        *time.Time `firestore:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

// AttachmentMeta is the minimal upload projection attached to messages
// when conversations are listed back to the client.
type AttachmentMeta struct {
	UploadID     string `firestore:"uploadId" json:"uploadId"`
	OriginalName string `firestore:"originalName" json:"originalName"`
}
