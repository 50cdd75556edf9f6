package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const imageBucket = "meme-images"

// UploadImage stores image bytes under path in the image bucket and returns
// the public URL.
func (c *Client) UploadImage(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	_, err := c.doRaw(ctx, "POST", "/storage/v1/object/"+imageBucket+"/"+escapePath(path), data, contentType)
	if err != nil {
		return "", err
	}
	return c.PublicURL(path), nil
}

// DeleteImage removes a stored image. Callers treat failures as best-effort.
func (c *Client) DeleteImage(ctx context.Context, path string) error {
	_, err := c.doJSON(ctx, "DELETE", "/storage/v1/object/"+imageBucket+"/"+escapePath(path), nil, nil)
	return err
}

// PublicURL returns the public URL of a stored image.
func (c *Client) PublicURL(path string) string {
	return c.BaseURL + "/storage/v1/object/public/" + imageBucket + "/" + escapePath(path)
}

// StoragePath extracts the bucket-relative object key from an image URL, or
// "" when the URL does not belong to this backend's storage. The key is the
// last two path segments (owner id and file name), which is how uploads are
// laid out.
func (c *Client) StoragePath(imageURL string) string {
	if c.BaseURL == "" || !strings.HasPrefix(imageURL, c.BaseURL) {
		return ""
	}
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 2 {
		return ""
	}
	return strings.Join(segments[len(segments)-2:], "/")
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// ImagePath builds the canonical object key for a new upload:
// <ownerID>/<unix-millis>.<ext>.
func ImagePath(ownerID string, unixMillis int64, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("%s/%d.%s", ownerID, unixMillis, ext)
}
