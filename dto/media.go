package dto

type MediaUploadResponse struct {
	URL        string `json:"url"`
	ObjectName string `json:"object_name"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mime_type"`
}
