package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/vfaronov/httpheader"
	"golang.org/x/net/html"
	"golang.org/x/net/publicsuffix"

	"github.com/hostfetch/hostfetch/internal/engine/types"
	"github.com/hostfetch/hostfetch/internal/utils"
)

// maxPageSize bounds how much of a landing page is parsed.
const maxPageSize = 4 * types.MB

// HTMLResolver fetches the landing page and reads the href of the element
// with the configured id (the host's download button). A page that already
// answers with an attachment is its own direct link.
type HTMLResolver struct {
	client    *http.Client
	buttonID  string
	userAgent string
}

// NewHTMLResolver builds a resolver with its own cookie jar so session
// cookies set by the landing page are sent on redirects.
func NewHTMLResolver(runtime *types.RuntimeConfig) (*HTMLResolver, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &HTMLResolver{
		client:    &http.Client{Jar: jar},
		buttonID:  runtime.GetButtonID(),
		userAgent: runtime.GetUserAgent(),
	}, nil
}

func (r *HTMLResolver) Resolve(ctx context.Context, pageURL string) (string, error) {
	utils.Debug("Resolving page: %s", pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid page url: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return "", fmt.Errorf("page status %d: %w", resp.StatusCode, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("page status %d", resp.StatusCode)
	}

	if disp, _, err := httpheader.ContentDisposition(resp.Header); err == nil && strings.EqualFold(disp, "attachment") {
		utils.Debug("Page %s is already a file download", pageURL)
		return resp.Request.URL.String(), nil
	}

	href, err := FindHref(io.LimitReader(resp.Body, maxPageSize), r.buttonID)
	if err != nil {
		return "", err
	}

	base := resp.Request.URL
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid direct link %q: %w", href, err)
	}
	direct := base.ResolveReference(ref).String()
	utils.Debug("Resolved %s -> %s", pageURL, direct)
	return direct, nil
}

// FindHref returns the href attribute of the element whose id is id.
func FindHref(body io.Reader, id string) (string, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}
	if n := findByID(doc, id); n != nil {
		for _, a := range n.Attr {
			if a.Key == "href" && strings.TrimSpace(a.Val) != "" {
				return strings.TrimSpace(a.Val), nil
			}
		}
	}
	return "", fmt.Errorf("no element #%s with an href: %w", id, ErrNotFound)
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
