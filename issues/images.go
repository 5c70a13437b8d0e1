package issues

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bugboard/go-bugboard/apierror"
	"github.com/bugboard/go-bugboard/internal/rest"
)

// imageContentTypes maps the accepted attachment extensions to their MIME
// types. Anything else is rejected locally before any network I/O.
var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".webp": "image/webp",
}

// UploadImage attaches the image at filePath to an issue and returns the
// stored path the server reports. The file extension must be .png, .jpg or
// .webp, case-insensitive.
func (c *Client) UploadImage(ctx context.Context, issueID int64, filePath string) (string, error) {
	if issueID == 0 {
		return "", apierror.Validationf("issue id is required")
	}
	contentType, ok := imageContentTypes[strings.ToLower(filepath.Ext(filePath))]
	if !ok {
		return "", apierror.Validationf("unsupported image format: %s", filepath.Base(filePath))
	}
	bearer, err := c.bearer()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", errors.Wrap(err, "read image file")
	}
	body, boundary, err := multipartFile(filepath.Base(filePath), contentType, data)
	if err != nil {
		return "", err
	}

	resp, err := c.rest.Do(ctx, rest.Request{
		Method:        "POST",
		URL:           fmt.Sprintf("%s/bugboard/issue/%d/image", c.baseURL, issueID),
		Body:          body,
		ContentType:   "multipart/form-data; boundary=" + boundary,
		Accept:        "application/json",
		Authorization: bearer,
		Timeout:       c.timeouts.Upload,
	})
	if err != nil {
		return "", err
	}
	if resp.Status != 200 && resp.Status != 201 {
		return "", apierror.FromStatus(resp.Status, string(resp.Body))
	}

	var ack struct {
		Path *string `json:"path"`
	}
	if err := json.Unmarshal(resp.Body, &ack); err != nil || ack.Path == nil {
		return "", &apierror.ProtocolError{Detail: "upload acknowledgement missing path", Body: string(resp.Body)}
	}
	return *ack.Path, nil
}

// multipartFile builds a single-part multipart/form-data body with the part
// named "file". The boundary carries a UUID so it never collides with payload
// bytes.
func multipartFile(filename, contentType string, data []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary("BugBoardBoundary-" + uuid.NewString()); err != nil {
		return nil, "", errors.Wrap(err, "set multipart boundary")
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", errors.Wrap(err, "create multipart part")
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", errors.Wrap(err, "write multipart part")
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "finish multipart body")
	}
	return buf.Bytes(), w.Boundary(), nil
}

// DownloadImage fetches raw image bytes from rawURL with the bearer header.
// A 403 is reported without the response body.
func (c *Client) DownloadImage(ctx context.Context, rawURL string) ([]byte, error) {
	if rawURL == "" {
		return nil, apierror.Validationf("image URL is required")
	}
	bearer, err := c.bearer()
	if err != nil {
		return nil, err
	}

	resp, err := c.rest.Do(ctx, rest.Request{
		Method:         "GET",
		URL:            rawURL,
		Accept:         "image/*",
		Authorization:  bearer,
		Timeout:        c.timeouts.Download,
		BinaryResponse: true,
	})
	if err != nil {
		return nil, err
	}
	switch resp.Status {
	case 200:
		return resp.Body, nil
	case 401:
		return nil, apierror.FromStatus(401, "")
	case 403:
		return nil, apierror.FromStatus(403, "")
	default:
		return nil, &apierror.HTTPError{Status: resp.Status}
	}
}

// DownloadImageWithFallback tries the canonical issue image path first when
// issueID is set, then the explicit rawURL when present. When both attempts
// fail, the returned error retains both so the full chain stays visible to
// callers and logs. With neither source supplied it fails locally.
func (c *Client) DownloadImageWithFallback(ctx context.Context, issueID int64, rawURL string) ([]byte, error) {
	if _, err := c.bearer(); err != nil {
		return nil, err
	}

	var primaryErr error
	if issueID != 0 {
		data, err := c.DownloadImage(ctx, fmt.Sprintf("%s/bugboard/issue/%d/image", c.baseURL, issueID))
		if err == nil {
			return data, nil
		}
		primaryErr = err
	}
	if rawURL != "" {
		data, err := c.DownloadImage(ctx, rawURL)
		if err == nil {
			return data, nil
		}
		if primaryErr != nil {
			return nil, &apierror.FallbackError{Primary: primaryErr, Fallback: err}
		}
		return nil, err
	}
	if primaryErr != nil {
		return nil, primaryErr
	}
	return nil, apierror.Validationf("either an issue id or an image URL is required")
}
