package model

// DefaultStartTime is used when the start-time header is absent
const DefaultStartTime = "0:00"

// DownloadRequest is a validated clip request parsed from inbound headers
type DownloadRequest struct {
	VideoURL      string
	StartTime     string
	EndTime       string // empty when no end-time was given
	CookieFileURL string `masq:"secret"`
}

// HasEndTime reports whether an end time was requested
func (r *DownloadRequest) HasEndTime() bool {
	return r.EndTime != ""
}

// TemporaryCredential is a cookie file fetched for a single request
type TemporaryCredential struct {
	LocalPath string
}

// MediaArtifact is a media file downloaded or produced within a request scratch directory
type MediaArtifact struct {
	LocalPath string
	Title     string // sanitized title
}

// UploadResult is the response body of a successful clip request
type UploadResult struct {
	PublicURL string `json:"public_url"`
	FileName  string `json:"file_name"`
}
