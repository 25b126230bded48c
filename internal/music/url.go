package music

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var ErrInvalidURL = errors.New("not a YouTube video URL")

var (
	youtubeHosts = map[string]bool{
		"youtube.com":        true,
		"www.youtube.com":    true,
		"m.youtube.com":      true,
		"music.youtube.com":  true,
		"gaming.youtube.com": true,
		"youtu.be":           true,
	}
	pathPrefixes = []string{"/embed/", "/shorts/", "/live/", "/v/"}
	videoIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ValidateURL returns the video id of a YouTube video URL.
func ValidateURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidURL
	}

	host := strings.ToLower(u.Hostname())
	if !youtubeHosts[host] {
		return "", ErrInvalidURL
	}

	var id string
	switch {
	case host == "youtu.be":
		id, _, _ = strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	case u.Path == "/watch":
		id = u.Query().Get("v")
	default:
		for _, prefix := range pathPrefixes {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				id, _, _ = strings.Cut(rest, "/")
				break
			}
		}
	}

	if !videoIDRegex.MatchString(id) {
		return "", ErrInvalidURL
	}
	return id, nil
}
