package types

import "github.com/m-mizutani/goerr/v2"

// Error kinds raised by the clip pipeline. Every pipeline error carries exactly
// one of these tags; ErrTagValidation is the only kind surfaced as HTTP 400.
var (
	ErrTagValidation      = goerr.NewTag("validation")
	ErrTagCredentialFetch = goerr.NewTag("credential_fetch")
	ErrTagExtraction      = goerr.NewTag("extraction")
	ErrTagTimeParse       = goerr.NewTag("time_parse")
	ErrTagTrim            = goerr.NewTag("trim")
	ErrTagUpload          = goerr.NewTag("upload")
)

// KindOf returns the name of the first error kind tagged on err, or "unknown"
func KindOf(err error) string {
	switch {
	case goerr.HasTag(err, ErrTagValidation):
		return ErrTagValidation.String()
	case goerr.HasTag(err, ErrTagCredentialFetch):
		return ErrTagCredentialFetch.String()
	case goerr.HasTag(err, ErrTagExtraction):
		return ErrTagExtraction.String()
	case goerr.HasTag(err, ErrTagTimeParse):
		return ErrTagTimeParse.String()
	case goerr.HasTag(err, ErrTagTrim):
		return ErrTagTrim.String()
	case goerr.HasTag(err, ErrTagUpload):
		return ErrTagUpload.String()
	}
	return "unknown"
}
