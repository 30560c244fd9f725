package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"
)

// maxImageBytes bounds how much of a remote photo is read into memory.
const maxImageBytes = 10 << 20

// Image is a downloaded photo.
type Image struct {
	Data        []byte
	ContentType string
}

// ImageFetcher downloads the photo behind a URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*Image, error)
}

// ErrImageURLNotAllowed is returned for photo URLs outside the allowed
// prefixes or resolving to a non-public address.
var ErrImageURLNotAllowed = errors.New("image url not allowed")

// HTTPImageFetcher fetches images over HTTP.
type HTTPImageFetcher struct {
	client   *http.Client
	prefixes []string
}

// NewHTTPImageFetcher creates a fetcher. A nil client gets a 30 second timeout.
func NewHTTPImageFetcher(client *http.Client) *HTTPImageFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPImageFetcher{client: client}
}

// NewPublicImageFetcher creates the fetcher used for user supplied URLs. It
// never connects to loopback, private or link-local addresses (redirects
// included) and, when prefixes is not empty, only fetches URLs starting with
// one of them.
func NewPublicImageFetcher(prefixes []string) *HTTPImageFetcher {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: rejectNonPublic,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	normalized := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" {
			normalized = append(normalized, strings.TrimRight(p, "/")+"/")
		}
	}
	return &HTTPImageFetcher{
		client:   &http.Client{Timeout: 30 * time.Second, Transport: transport},
		prefixes: normalized,
	}
}

func rejectNonPublic(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrImageURLNotAllowed, host)
	}
	ip = ip.Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsMulticast() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() {
		return fmt.Errorf("%w: %s", ErrImageURLNotAllowed, ip)
	}
	return nil
}

func (f *HTTPImageFetcher) checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrImageURLNotAllowed, raw)
	}
	if len(f.prefixes) == 0 {
		return nil
	}
	for _, p := range f.prefixes {
		if strings.HasPrefix(raw, p) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrImageURLNotAllowed, raw)
}

// Fetch downloads url and resolves its content type from the response header,
// falling back to content sniffing and finally image/jpeg.
func (f *HTTPImageFetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	if err := f.checkURL(url); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image, status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image larger than %d bytes", maxImageBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	return &Image{Data: data, ContentType: resolveContentType(resp.Header.Get("Content-Type"), data)}, nil
}

func resolveContentType(header string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mt, "image/") {
		return mt
	}
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return "image/jpeg"
}
