package issues_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugboard/go-bugboard/apierror"
	"github.com/bugboard/go-bugboard/issues"
	"github.com/bugboard/go-bugboard/session"
)

func writeTempImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0o644))
	return path
}

func TestUploadImage(t *testing.T) {
	t.Run("sends one multipart part named file", func(t *testing.T) {
		var boundary, partName, partType, filename, stored string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "POST", r.Method)
			require.Equal(t, "/bugboard/issue/42/image", r.URL.Path)
			require.Equal(t, "Bearer abc.def.ghi", r.Header.Get("Authorization"))

			contentType := r.Header.Get("Content-Type")
			require.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="))
			boundary = strings.TrimPrefix(contentType, "multipart/form-data; boundary=")

			reader, err := r.MultipartReader()
			require.NoError(t, err)
			part, err := reader.NextPart()
			require.NoError(t, err)
			partName = part.FormName()
			partType = part.Header.Get("Content-Type")
			filename = part.FileName()

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"path":"/files/42/shot.png"}`))
			stored = "/files/42/shot.png"
		}))
		defer server.Close()

		path, err := issues.NewClient(server.URL, loggedInStore()).
			UploadImage(context.Background(), 42, writeTempImage(t, "shot.png"))
		require.NoError(t, err)
		require.Equal(t, stored, path)
		require.Equal(t, "file", partName)
		require.Equal(t, "image/png", partType)
		require.Equal(t, "shot.png", filename)
		require.True(t, strings.HasPrefix(boundary, "BugBoardBoundary-"))
	})

	t.Run("MIME type follows the extension", func(t *testing.T) {
		for name, want := range map[string]string{
			"a.jpg":  "image/jpeg",
			"b.webp": "image/webp",
			"c.PNG":  "image/png",
		} {
			var partType string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reader, err := r.MultipartReader()
				require.NoError(t, err)
				part, err := reader.NextPart()
				require.NoError(t, err)
				partType = part.Header.Get("Content-Type")
				w.Write([]byte(`{"path":"/p"}`))
			}))

			_, err := issues.NewClient(server.URL, loggedInStore()).
				UploadImage(context.Background(), 1, writeTempImage(t, name))
			require.NoError(t, err)
			require.Equal(t, want, partType, "file %q", name)
			server.Close()
		}
	})

	t.Run("unsupported extension is rejected before any request", func(t *testing.T) {
		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
		}))
		defer server.Close()

		_, err := issues.NewClient(server.URL, loggedInStore()).
			UploadImage(context.Background(), 42, writeTempImage(t, "photo.gif"))
		var ve *apierror.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Zero(t, hits)
	})

	t.Run("2xx body without path is a protocol error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := issues.NewClient(server.URL, loggedInStore()).
			UploadImage(context.Background(), 42, writeTempImage(t, "shot.png"))
		var pe *apierror.ProtocolError
		require.ErrorAs(t, err, &pe)
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("returns raw bytes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "image/*", r.Header.Get("Accept"))
			require.Equal(t, "Bearer abc.def.ghi", r.Header.Get("Authorization"))
			w.Write([]byte{0x89, 0x50, 0x4e, 0x47})
		}))
		defer server.Close()

		data, err := issues.NewClient(server.URL, loggedInStore()).
			DownloadImage(context.Background(), server.URL+"/files/1.png")
		require.NoError(t, err)
		require.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, data)
	})

	t.Run("403 surfaces without the body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("secret detail"))
		}))
		defer server.Close()

		_, err := issues.NewClient(server.URL, loggedInStore()).
			DownloadImage(context.Background(), server.URL+"/files/1.png")
		require.ErrorIs(t, err, apierror.ErrForbidden)
		require.NotContains(t, err.Error(), "secret detail")
	})
}

func TestDownloadImageWithFallback(t *testing.T) {
	t.Run("canonical path first", func(t *testing.T) {
		var paths []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			w.Write([]byte("img"))
		}))
		defer server.Close()

		data, err := issues.NewClient(server.URL, loggedInStore()).
			DownloadImageWithFallback(context.Background(), 42, server.URL+"/alt.png")
		require.NoError(t, err)
		require.Equal(t, []byte("img"), data)
		require.Equal(t, []string{"/bugboard/issue/42/image"}, paths)
	})

	t.Run("falls back to the URL when the canonical path fails", func(t *testing.T) {
		var paths []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			if r.URL.Path == "/alt.png" {
				w.Write([]byte("img"))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		data, err := issues.NewClient(server.URL, loggedInStore()).
			DownloadImageWithFallback(context.Background(), 42, server.URL+"/alt.png")
		require.NoError(t, err)
		require.Equal(t, []byte("img"), data)
		require.Equal(t, []string{"/bugboard/issue/42/image", "/alt.png"}, paths)
	})

	t.Run("both failing surfaces both attempts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/alt.png" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := issues.NewClient(server.URL, loggedInStore()).
			DownloadImageWithFallback(context.Background(), 42, server.URL+"/alt.png")
		var fe *apierror.FallbackError
		require.ErrorAs(t, err, &fe)
		require.ErrorIs(t, err, apierror.ErrForbidden)

		var he *apierror.HTTPError
		require.ErrorAs(t, fe.Primary, &he)
		require.Equal(t, 404, he.Status)
	})

	t.Run("single source failure is final", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := issues.NewClient(server.URL, loggedInStore()).
			DownloadImageWithFallback(context.Background(), 42, "")
		var he *apierror.HTTPError
		require.ErrorAs(t, err, &he)
		var fe *apierror.FallbackError
		require.False(t, errors.As(err, &fe))
	})

	t.Run("neither source fails locally", func(t *testing.T) {
		_, err := issues.NewClient("http://unused", loggedInStore()).
			DownloadImageWithFallback(context.Background(), 0, "")
		var ve *apierror.ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("no token fails fast", func(t *testing.T) {
		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
		}))
		defer server.Close()

		_, err := issues.NewClient(server.URL, session.NewStore()).
			DownloadImageWithFallback(context.Background(), 42, server.URL+"/alt.png")
		require.ErrorIs(t, err, apierror.ErrUnauthorized)
		require.Zero(t, hits)
	})
}
