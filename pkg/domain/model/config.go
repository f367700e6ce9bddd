package model

import "time"

const (
	// DefaultBucket is the bucket clips are uploaded to unless configured otherwise
	DefaultBucket = "youtube-clips"

	// DefaultFormat prefers <=1080p H.264 MP4 with M4A audio, falling back to the
	// best single <=1080p H.264 MP4
	DefaultFormat = "bestvideo[height<=1080][ext=mp4][vcodec^=avc]+bestaudio[ext=m4a]/best[height<=1080][ext=mp4][vcodec^=avc]"
)

// PipelineConfig holds the settings shared by every clip request
type PipelineConfig struct {
	Bucket     string
	ScratchDir string // root; each request gets its own subdirectory
}

// ExtractOptions are the options handed to the video extraction library
type ExtractOptions struct {
	OutputTemplate string
	Format         string
	CookieFile     string
}

// ScratchMaxAge is the age after which an abandoned request scratch directory is swept
const ScratchMaxAge = time.Hour
