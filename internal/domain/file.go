package domain

import "time"

// File is the metadata of a file owned by a user.
type File struct {
	ID          string
	OwnerID     string
	Name        string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}
