package asset

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client used for remote resources.
var httpClient = &http.Client{Timeout: 60 * time.Second}

// The Resource class wraps a streamable file or remote Resource.
type Resource struct {
	io.ReadCloser
	path string
}

// Returns the path or URL of this resource.
func (r *Resource) Path() string {
	return r.path
}

// Returns true if path refers to an http/https URL.
func IsRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Join a base directory or URL and a file name.
func Join(base, name string) string {
	if IsRemote(base) {
		return strings.TrimSuffix(base, "/") + "/" + url.PathEscape(name)
	}
	return filepath.Join(base, name)
}

// Open a Resource data stream. Paths that are not http/https URLs are opened
// as local files exactly as given.
//
// The caller must make sure to close the returned io.ReadCloser to prevent mem leaks.
// Missing local files and remote 404 responses yield errors matching fs.ErrNotExist.
func NewResource(pathToResource string) (*Resource, error) {
	if !IsRemote(pathToResource) {
		if err := checkScheme(pathToResource); err != nil {
			return nil, err
		}
		f, err := os.Open(pathToResource)
		if err != nil {
			return nil, err
		}
		return &Resource{ReadCloser: f, path: pathToResource}, nil
	}

	resp, err := httpClient.Get(pathToResource)
	if err != nil {
		return nil, fmt.Errorf("resource: could not fetch '%s': %w", pathToResource, err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, statusError(pathToResource, resp.StatusCode)
	}

	return &Resource{
		ReadCloser: resp.Body,
		path:       pathToResource,
	}, nil
}

// Check whether a local file or remote resource exists. Remote resources are
// probed with a HEAD request.
func Exists(pathToResource string) (bool, error) {
	if !IsRemote(pathToResource) {
		if err := checkScheme(pathToResource); err != nil {
			return false, err
		}
		_, err := os.Stat(pathToResource)
		if err == nil {
			return true, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	resp, err := httpClient.Head(pathToResource)
	if err != nil {
		return false, fmt.Errorf("resource: could not probe '%s': %w", pathToResource, err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode >= 400 {
		return false, statusError(pathToResource, resp.StatusCode)
	}
	return true, nil
}

// Reject URLs with schemes other than http/https. Windows drive letters
// (C:\refs) are plain paths.
func checkScheme(pathToResource string) error {
	if i := strings.Index(pathToResource, "://"); i > 0 {
		return fmt.Errorf("resource: unsupported scheme '%s'", pathToResource[:i])
	}
	return nil
}

func statusError(location string, status int) error {
	if status == http.StatusNotFound {
		return fmt.Errorf("resource: could not fetch '%s': status %d: %w", location, status, fs.ErrNotExist)
	}
	return fmt.Errorf("resource: could not fetch '%s': status %d", location, status)
}
