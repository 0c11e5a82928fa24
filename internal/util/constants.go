package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeJSON = "application/json"
)

// gin context key holding the authenticated *Claims
const ContextUserKey = "user"

// Object key prefix for exported academic summaries.
const ExportPrefix = "exports/summaries"
