package rr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tailscale/hujson"
	"google.golang.org/api/googleapi"
)

const (
	fakeUserAgent = `Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:128.0) Gecko/20100101 Firefox/128.0`

	fetchURLTimeoutSeconds = 10 // 10 seconds' timeout for fetching url contents
)

// StandardizeJSON standardizes given JSON (JWCC) bytes.
func StandardizeJSON(b []byte) ([]byte, error) {
	ast, err := hujson.Parse(b)
	if err != nil {
		return b, err
	}
	ast.Standardize()

	return ast.Pack(), nil
}

// convert error to string
func errorString(err error) string {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return fmt.Sprintf("googleapi error: %s", gerr.Body)
	}
	return err.Error()
}

// print verbose message
func v(verbose bool, format string, v ...any) {
	if verbose {
		log.Printf("[verbose] %s", fmt.Sprintf(format, v...))
	}
}

// write bytes to a temp file in the target's directory, then rename it into
// place, so an interrupted write never leaves a partial file behind
func writeFileAtomic(path string, bytes []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// get content type from given url with HTTP HEAD
func getContentType(url string, verbose bool) (contentType string, err error) {
	client := &http.Client{
		Timeout: time.Duration(fetchURLTimeoutSeconds) * time.Second,
	}

	v(verbose, "fetching head from url: %s", url)

	req, err := http.NewRequest("HEAD", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %s", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch head from url: %s", err)
	}
	defer resp.Body.Close()

	return resp.Header.Get("Content-Type"), nil
}

// fetch the content from given url as plain text
func fetchURLContent(url string, verbose bool) (content []byte, contentType string, err error) {
	client := &http.Client{
		Timeout: time.Duration(fetchURLTimeoutSeconds) * time.Second,
	}

	v(verbose, "fetching contents from url: %s", url)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, contentType, fmt.Errorf("failed to create request: %s", err)
	}
	req.Header.Set("User-Agent", fakeUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, contentType, fmt.Errorf("failed to fetch contents from url: %s", err)
	}
	defer resp.Body.Close()

	contentType = resp.Header.Get("Content-Type")

	v(verbose, "fetched '%s' from url: %s", contentType, url)

	if resp.StatusCode != 200 {
		return nil, contentType, fmt.Errorf("http error %d from url: %s", resp.StatusCode, url)
	}

	if isHTMLContent(contentType) {
		var doc *goquery.Document
		if doc, err = goquery.NewDocumentFromReader(resp.Body); err == nil {
			// NOTE: removing unwanted things here
			_ = doc.Find("script").Remove()                   // javascripts
			_ = doc.Find("link[rel=\"stylesheet\"]").Remove() // css links
			_ = doc.Find("style").Remove()                    // embeded css styles

			content = []byte(removeConsecutiveEmptyLines(doc.Text()))
		} else {
			err = fmt.Errorf("failed to read '%s' document from %s: %s", contentType, url, err)
		}
	} else if strings.HasPrefix(contentType, "text/") {
		var bytes []byte
		if bytes, err = io.ReadAll(resp.Body); err == nil {
			content = []byte(removeConsecutiveEmptyLines(string(bytes)))
		} else {
			err = fmt.Errorf("failed to read '%s' document from %s: %s", contentType, url, err)
		}
	} else {
		err = fmt.Errorf("content type '%s' not supported for url: %s", contentType, url)
	}

	return content, contentType, err
}

// remove consecutive empty lines for compacting fetched text
func removeConsecutiveEmptyLines(input string) string {
	// trim each line
	trimmed := []string{}
	for _, line := range strings.Split(input, "\n") {
		trimmed = append(trimmed, strings.TrimRight(line, " "))
	}
	input = strings.Join(trimmed, "\n")

	// remove redundant empty lines
	regex := regexp.MustCompile("\n{2,}")
	return regex.ReplaceAllString(input, "\n")
}

// check if given HTTP content type is HTML
func isHTMLContent(contentType string) bool {
	return strings.HasPrefix(contentType, "text/html") ||
		strings.HasPrefix(contentType, "application/xhtml+xml")
}

// Prettify prettifies given thing in JSON format.
func Prettify(v any) string {
	if bytes, err := json.MarshalIndent(v, "", "  "); err == nil {
		return string(bytes)
	}
	return fmt.Sprintf("%+v", v)
}
