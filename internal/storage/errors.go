package storage

import "fmt"

// DownloadError reports an object that could not be fetched.
type DownloadError struct {
	Bucket  string
	Key     string
	Message string
	Cause   error
}

func (e *DownloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage: %s s3://%s/%s: %v", e.Message, e.Bucket, e.Key, e.Cause)
	}
	return fmt.Sprintf("storage: %s s3://%s/%s", e.Message, e.Bucket, e.Key)
}

func (e *DownloadError) Unwrap() error {
	return e.Cause
}
