// Package publish implements the HTTP client for spec.md §6's publish
// endpoint, grounded on the upload flow in
// original_source/core/src/commands/publish.rs, re-expressed with
// net/http multipart the way golang-dep's registry_config.go builds
// authenticated registry requests.
package publish

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/kip"
	"github.com/sensmetry/sysand/storage"
)

// TokenEnvVar is the environment variable cmd/sysand reads a bearer token
// from when publishing. The core itself never reads the environment (per
// spec.md's scope); this constant exists so the CLI and the core agree on
// the name.
const TokenEnvVar = "SYSAND_INDEX_TOKEN"

// AuthError reports a 401/403 response.
type AuthError struct{ Message string }

func (e *AuthError) Error() string { return "authentication failed: " + e.Message }

// ConflictError reports a 409 response: the package version already exists.
type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return "conflict: package version already exists: " + e.Message }

// BadRequestError reports a 400 or 404 response.
type BadRequestError struct{ Message string }

func (e *BadRequestError) Error() string { return "bad request: " + e.Message }

// ServerError reports any other non-success response.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return errors.Errorf("server error (%d): %s", e.Status, e.Message).Error()
}

// Response is the outcome of a successful publish.
type Response struct {
	Status       int
	Message      string
	IsNewProject bool
}

// AuthPolicy authenticates an upload request before it is sent. build
// constructs a fresh *http.Request each time it is called, so a policy
// that needs to retry after a credential refresh can call it more than
// once, mirroring original_source's `with_authentication(client,
// request_builder) -> Response`.
type AuthPolicy interface {
	WithAuthentication(client *http.Client, build func() (*http.Request, error)) (*http.Response, error)
}

// NoAuth sends the request unmodified.
type NoAuth struct{}

func (NoAuth) WithAuthentication(client *http.Client, build func() (*http.Request, error)) (*http.Response, error) {
	req, err := build()
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// BearerToken attaches an `Authorization: Bearer <Token>` header.
type BearerToken struct {
	Token string
}

func (b BearerToken) WithAuthentication(client *http.Client, build func() (*http.Request, error)) (*http.Response, error) {
	req, err := build()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+b.Token)
	return client.Do(req)
}

// Upload publishes the .kpar archive at kparPath to indexURL's
// `/api/v1/upload` endpoint as a multipart/form-data request carrying the
// archive's package URL (`purl`) and file bytes.
func Upload(kparPath, indexURL string, auth AuthPolicy, client *http.Client) (*Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	proj, err := storage.OpenKparProject(kparPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open kpar %s", kparPath)
	}
	defer proj.Close()

	rawInfo, rawMeta, err := storage.GetProject(proj)
	if err != nil {
		return nil, err
	}
	if rawInfo == nil {
		return nil, errors.New("missing project info in kpar")
	}
	if rawMeta == nil {
		return nil, errors.New("missing project metadata in kpar")
	}
	info, err := rawInfo.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "validate info")
	}

	purl := kip.PackageURL(info.Name, info.Version.Original())

	fileBytes, err := os.ReadFile(kparPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", kparPath)
	}
	fileName := filepath.Base(kparPath)
	if fileName == "" || fileName == "." {
		fileName = "package.kpar"
	}

	uploadURL := strings.TrimRight(indexURL, "/") + "/api/v1/upload"

	build := func() (*http.Request, error) {
		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		if err := w.WriteField("purl", purl); err != nil {
			return nil, err
		}
		part, err := w.CreateFormFile("file", fileName)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, bytes.NewReader(fileBytes)); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}

		req, err := http.NewRequest(http.MethodPost, uploadURL, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
		return req, nil
	}

	if auth == nil {
		auth = NoAuth{}
	}
	resp, err := auth.WithAuthentication(client, build)
	if err != nil {
		return nil, errors.Wrap(err, "publish request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	message := string(data)

	switch resp.StatusCode {
	case http.StatusOK:
		return &Response{Status: resp.StatusCode, Message: message, IsNewProject: false}, nil
	case http.StatusCreated:
		return &Response{Status: resp.StatusCode, Message: message, IsNewProject: true}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &AuthError{Message: message}
	case http.StatusConflict:
		return nil, &ConflictError{Message: message}
	case http.StatusBadRequest, http.StatusNotFound:
		return nil, &BadRequestError{Message: message}
	default:
		return nil, &ServerError{Status: resp.StatusCode, Message: message}
	}
}
