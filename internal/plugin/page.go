package plugin

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"mvdan.cc/xurls/v2"
)

const (
	Host = "wordpress.org"

	UnknownTitle     = "Unknown Plugin"
	UnknownAuthor    = "Unknown Author"
	NoIcon           = "No image found"
	NoDownloadLink   = "No download link found"
	titleSelector    = "h1.plugin-title"
	authorSelector   = ".author.vcard a.url.fn.n"
	iconSelector     = "img.plugin-icon"
	downloadSelector = ".plugin-download a"
)

var slugRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Page holds the fields read from a plugin directory page.
type Page struct {
	Title         string
	Author        string
	RepositoryURL string
	IconURL       string
	DownloadURL   string
}

// PlaceholderPage is what a page with none of the expected elements yields.
func PlaceholderPage(pageURL string) Page {
	return Page{
		Title:         UnknownTitle,
		Author:        UnknownAuthor,
		RepositoryURL: strings.TrimSpace(pageURL),
		IconURL:       NoIcon,
		DownloadURL:   NoDownloadLink,
	}
}

// Extract reads the plugin fields from doc. Every field falls back to its
// placeholder when the element is missing or empty.
func Extract(doc *goquery.Document, pageURL string) Page {
	page := PlaceholderPage(pageURL)
	if doc == nil {
		return page
	}

	if title := strings.TrimSpace(doc.Find(titleSelector).First().Text()); title != "" {
		page.Title = title
	}

	if author := doc.Find(authorSelector).First(); author.Length() > 0 {
		page.Author = strings.TrimSpace(author.Text())
	}

	if icon := doc.Find(iconSelector).First(); icon.Length() > 0 {
		src, _ := icon.Attr("src")
		page.IconURL, _, _ = strings.Cut(src, "?")
	}

	if link := doc.Find(downloadSelector).First(); link.Length() > 0 {
		href, _ := link.Attr("href")
		page.DownloadURL = resolveURL(pageURL, href)
	}

	return page
}

// BuildPrompt formats the livestream request sent to the completion API.
func BuildPrompt(page Page) string {
	return fmt.Sprintf(`
I need the information about this plugin for a livestream. I need:

Plugin Title: %s
Plugin Author: %s
Link to Repository Page: %s
Image Icon: %s
Download Link: %s

And a 5-6 bullet point summary of what the plugin does. `+
		`If there is a pro version of the plugin, `+
		`give an extra bullet point summarizing what the pro version offers in a few words.`,
		page.Title,
		page.Author,
		page.RepositoryURL,
		page.IconURL,
		page.DownloadURL,
	)
}

// IsPageURL reports whether raw points into the plugin directory, and
// returns the plugin slug.
func IsPageURL(raw string) (bool, string) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false, ""
	}

	if u.Scheme != "https" || u.Host != Host {
		return false, ""
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "plugins" {
		return false, ""
	}

	slug := strings.TrimSpace(parts[1])
	if !slugRe.MatchString(slug) {
		return false, ""
	}

	return true, slug
}

// PageURL is the canonical directory URL for slug.
func PageURL(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ""
	}

	return fmt.Sprintf("https://%s/plugins/%s/", Host, slug)
}

// FindPageURLs returns the plugin page URLs mentioned in text, in order of
// appearance and without duplicates.
func FindPageURLs(text string) ([]string, error) {
	httpsURLRe, err := xurls.StrictMatchingScheme("https://")
	if err != nil {
		return nil, fmt.Errorf("create regexp: %w", err)
	}

	var urls []string
	seen := make(map[string]struct{})

	for _, u := range httpsURLRe.FindAllString(text, -1) {
		ok, slug := IsPageURL(u)
		if !ok {
			continue
		}

		canonical := PageURL(slug)
		if _, dup := seen[canonical]; dup {
			continue
		}

		seen[canonical] = struct{}{}
		urls = append(urls, strings.TrimSpace(u))
	}

	return urls, nil
}

func resolveURL(base string, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	baseURL, err := url.Parse(strings.TrimSpace(base))
	if err != nil || !baseURL.IsAbs() {
		return ref
	}

	return baseURL.ResolveReference(refURL).String()
}
