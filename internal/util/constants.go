package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 文件上传相关常量
const (
	MaxUploadSize = 5 << 20 // 5 MB

	MimeImage = "image/"
)
