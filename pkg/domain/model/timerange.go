package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ytclip/ytclip/pkg/domain/types"
)

// TimeRange is the requested clip range in whole seconds
type TimeRange struct {
	StartSeconds int
	EndSeconds   *int // nil means until the end of the video
}

// ParseTime converts "mm:ss" or a plain second count into seconds.
// Hours are not supported and seconds may exceed 59 ("1:75" is 135).
func ParseTime(s string) (int, error) {
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 {
			return 0, goerr.New("invalid time format, expected mm:ss or seconds",
				goerr.V("time", s), goerr.T(types.ErrTagTimeParse))
		}

		minutes, err := parseCount(parts[0])
		if err != nil {
			return 0, goerr.Wrap(err, "invalid minutes", goerr.V("time", s), goerr.T(types.ErrTagTimeParse))
		}
		seconds, err := parseCount(parts[1])
		if err != nil {
			return 0, goerr.Wrap(err, "invalid seconds", goerr.V("time", s), goerr.T(types.ErrTagTimeParse))
		}
		return minutes*60 + seconds, nil
	}

	seconds, err := parseCount(s)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid time", goerr.V("time", s), goerr.T(types.ErrTagTimeParse))
	}
	return seconds, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, goerr.New("negative value", goerr.V("value", n))
	}
	return n, nil
}

// FormatTime renders seconds as zero padded "mm:ss"
func FormatTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ResolveTimeRange parses the start and optional end time strings. An empty
// end means no end. A present end must be after start.
func ResolveTimeRange(start, end string) (*TimeRange, error) {
	startSeconds, err := ParseTime(start)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse start time", goerr.T(types.ErrTagTimeParse))
	}

	tr := &TimeRange{StartSeconds: startSeconds}
	if end == "" {
		return tr, nil
	}

	endSeconds, err := ParseTime(end)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse end time", goerr.T(types.ErrTagTimeParse))
	}
	if endSeconds <= startSeconds {
		return nil, goerr.New("end time must be after start time",
			goerr.V("start_seconds", startSeconds),
			goerr.V("end_seconds", endSeconds),
			goerr.T(types.ErrTagTimeParse))
	}
	tr.EndSeconds = &endSeconds

	return tr, nil
}

// NeedsTrim reports whether the downloaded video has to be cut
func (r *TimeRange) NeedsTrim() bool {
	return r.StartSeconds > 0 || r.EndSeconds != nil
}

// Label returns "mm:ss to mm:ss", or "mm:ss to end" without an end time
func (r *TimeRange) Label() string {
	if r.EndSeconds == nil {
		return FormatTime(r.StartSeconds) + " to end"
	}
	return FormatTime(r.StartSeconds) + " to " + FormatTime(*r.EndSeconds)
}

// ClipFileName is the file name of a trimmed artifact
func ClipFileName(title string, r *TimeRange) string {
	return fmt.Sprintf("%s [Clip %s].mp4", title, r.Label())
}
