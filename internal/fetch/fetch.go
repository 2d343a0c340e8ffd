// Package fetch implements the Fetcher: a single HTTP GET of an MRF URL,
// with filename resolution and the 403-skip/other-error-fails split.
//
// Grounded on gyeh-price-is-right's internal/worker/download.go (tuned
// http.Transport, context-aware request, progressReader/countingReader
// wrapping) and original_source's download_file/get_filename_from_url
// (Content-Disposition RFC 5987 parsing, browser User-Agent, 403 ->
// skip-not-fail).
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrForbidden signals a 403 response: per spec.md, this is a per-URL skip,
// not a pipeline failure.
var ErrForbidden = errors.New("fetch: 403 forbidden")

var httpClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConnsPerHost:   10,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
	},
	Timeout: 30 * time.Minute,
}

var userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Result is a fetched payload: the response body (caller must Close it),
// the resolved filename, and the advertised content length (-1 if unknown).
type Result struct {
	Body          io.ReadCloser
	Filename      string
	ContentLength int64
}

// Fetch performs the GET and resolves a filename for the response, in the
// priority order spec.md's Fetcher table specifies: Content-Disposition,
// then URL path, then MIME-guessed extension, then a hash-based fallback.
// Returns ErrForbidden on a 403; any other non-2xx status is a wrapped
// error, same as a transport failure.
func Fetch(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	if resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %w", rawURL, ErrForbidden)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	filename := filenameFrom(resp, rawURL)

	return &Result{
		Body:          resp.Body,
		Filename:      filename,
		ContentLength: resp.ContentLength,
	}, nil
}

var (
	cdExtendedRe = regexp.MustCompile(`(?i)filename\*\s*=\s*([^']*)''(.+)`)
	cdSimpleRe   = regexp.MustCompile(`(?i)filename\s*=\s*"?([^";]+)"?`)
)

func filenameFrom(resp *http.Response, requestedURL string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if m := cdExtendedRe.FindStringSubmatch(cd); m != nil {
			if decoded, err := url.QueryUnescape(m[2]); err == nil {
				return decoded
			}
			return m[2]
		}
		if m := cdSimpleRe.FindStringSubmatch(cd); m != nil {
			return m[1]
		}
	}

	effectiveURL := requestedURL
	if resp.Request != nil && resp.Request.URL != nil {
		effectiveURL = resp.Request.URL.String()
	}
	if u, err := url.Parse(effectiveURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
			if decoded, err := url.QueryUnescape(base); err == nil {
				return decoded
			}
			return base
		}
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType := strings.TrimSpace(strings.SplitN(ct, ";", 2)[0])
		if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
			return "download" + exts[0]
		}
	}

	return "download_" + strconv.FormatUint(fnv32(requestedURL), 10) + ".bin"
}

// fnv32 is a cheap, dependency-free hash for the last-resort filename,
// standing in for Python's builtin hash() used by the original script.
func fnv32(s string) uint64 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return uint64(h) % 100000
}
