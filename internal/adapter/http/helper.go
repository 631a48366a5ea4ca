package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	domain "backlog-snapshot-api/internal/domain/snapshot"
	"backlog-snapshot-api/internal/ingest"
	snapshotuc "backlog-snapshot-api/internal/usecase/snapshot"

	"github.com/labstack/echo/v4"
)

const fieldDescription = "description"

var errBadID = fmt.Errorf("%w: snapshot id must be a positive integer", domain.ErrInvalidInput)

// ---- helpers ----

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

func multipartForm(c echo.Context) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// body limit and similar transport errors keep their status
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return nil, he
		}
		return nil, fmt.Errorf("%w: expected multipart/form-data body", domain.ErrInvalidInput)
	}
	return form, nil
}

// readFiles collects the upload for every table whose form field is present.
// Extra form fields are ignored.
func readFiles(form *multipart.Form, schemas []ingest.Schema) (snapshotuc.Files, error) {
	files := snapshotuc.Files{}
	for _, s := range schemas {
		headers := form.File[s.Field]
		if len(headers) == 0 {
			continue
		}
		data, err := readPart(headers[0])
		if err != nil {
			return nil, &ingest.Error{Table: s.Table, Field: s.Field, Op: ingest.OpDecode, Err: err}
		}
		files[s.Table] = data
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return data, nil
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
