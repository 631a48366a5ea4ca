package http

import (
	"net/http"

	"backlog-snapshot-api/internal/adapter/middleware"
	"backlog-snapshot-api/internal/ingest"
	snapshotuc "backlog-snapshot-api/internal/usecase/snapshot"

	"github.com/labstack/echo/v4"
)

type SnapshotHandler struct {
	uc      *snapshotuc.Usecase
	schemas *ingest.Registry
}

func NewSnapshotHandler(uc *snapshotuc.Usecase, schemas *ingest.Registry) *SnapshotHandler {
	if schemas == nil {
		schemas = ingest.NewRegistry(ingest.DefaultFiscalYear)
	}
	return &SnapshotHandler{uc: uc, schemas: schemas}
}

type uploadResp struct {
	Message    string `json:"message"`
	SnapshotID int64  `json:"snapshot_id"`
	RowsSaved  int    `json:"rows_saved"`
}

type updateTablesResp struct {
	Message string `json:"message"`
	*snapshotuc.UpdateResult
}

type deleteResp struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type updateDescriptionReq struct {
	Description *string `json:"description" validate:"required,max=2000,nocontrol"`
}

func (h *SnapshotHandler) List(c echo.Context) error {
	list, err := h.uc.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, list)
}

func (h *SnapshotHandler) Latest(c echo.Context) error {
	b, err := h.uc.Latest(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, b)
}

func (h *SnapshotHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	b, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, b)
}

// Upload creates a snapshot from any subset of the six table files.
func (h *SnapshotHandler) Upload(c echo.Context) error {
	form, err := multipartForm(c)
	if err != nil {
		return respondError(c, err)
	}
	files, err := readFiles(form, h.schemas.All())
	if err != nil {
		return respondError(c, err)
	}
	in := snapshotuc.CreateInput{Description: formValue(form, fieldDescription), Files: files}
	if p, ok := middleware.PrincipalFrom(c); ok {
		in.CreatedBy = p.UserID
	}
	res, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, uploadResp{
		Message:    "Snapshot created successfully",
		SnapshotID: res.SnapshotID,
		RowsSaved:  res.RowsSaved,
	})
}

// UpdateTables replaces the rows of the supplied tables only.
func (h *SnapshotHandler) UpdateTables(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	form, err := multipartForm(c)
	if err != nil {
		return respondError(c, err)
	}
	files, err := readFiles(form, h.schemas.All())
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.uc.Update(c.Request().Context(), id, files)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, updateTablesResp{Message: "Snapshot updated successfully", UpdateResult: res})
}

func (h *SnapshotHandler) UpdateDescription(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req updateDescriptionReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, &validationError{details: []FieldError{{Field: "_", Message: "invalid JSON body"}}})
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, &validationError{details: ToFieldErrors(err)})
	}
	s, err := h.uc.UpdateDescription(c.Request().Context(), id, *req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, s)
}

func (h *SnapshotHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, deleteResp{Message: "Snapshot deleted successfully", ID: id})
}
