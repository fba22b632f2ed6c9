package blog

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/apperror"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/auth"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/media"
)

// imageField is the multipart field carrying an uploaded cover image.
const imageField = "cover-image"

// Handler serves the /blogs routes.
type Handler struct {
	mgr *Manager
	log zerolog.Logger
}

func NewHandler(mgr *Manager, log zerolog.Logger) *Handler {
	return &Handler{mgr: mgr, log: log}
}

// postJSON is the JSON body accepted by create and update alongside multipart forms.
type postJSON struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Tags       *[]string `json:"tags"`
	Type       *string   `json:"type"`
	CoverImage *string   `json:"cover_image"`
}

func isJSON(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation(name + " must be an integer")
	}
	return n, nil
}

// formField returns a non-empty form value, or nil when the field is absent
// or blank. HTML forms post every field, so blanks count as not supplied.
func formField(params url.Values, key string) *string {
	v := strings.TrimSpace(params.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// formImage opens the uploaded cover image, if any. The caller closes it.
func formImage(c echo.Context) (*media.File, io.Closer, error) {
	fh, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, apperror.Validation("invalid multipart form")
	}
	if fh.Filename == "" || fh.Size == 0 {
		return nil, nil, nil
	}
	src, err := fh.Open()
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	return &media.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        src,
	}, src, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ===== List =====
func (h *Handler) List(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", DefaultPageSize)
	if err != nil {
		return err
	}
	out, err := h.mgr.List(c.Request().Context(), c.QueryParam("type"), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.mgr.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// ===== Create =====
func (h *Handler) Create(c echo.Context) error {
	caller := auth.CurrentUser(c)
	if caller == nil {
		return apperror.Unauthenticated()
	}

	var in CreateInput
	if isJSON(c) {
		var req postJSON
		if err := c.Bind(&req); err != nil {
			return apperror.Validation("invalid request")
		}
		in = CreateInput{
			Title:      deref(req.Title),
			Content:    deref(req.Content),
			Type:       deref(req.Type),
			CoverImage: deref(req.CoverImage),
		}
		if req.Tags != nil {
			in.Tags = cleanTags(*req.Tags)
		}
	} else {
		params, err := c.FormParams()
		if err != nil {
			return apperror.Validation("invalid form")
		}
		in = CreateInput{
			Title:      params.Get("title"),
			Content:    params.Get("content"),
			Tags:       ParseTags(params.Get("tags")),
			Type:       params.Get("type"),
			CoverImage: params.Get("cover_image"),
		}
		img, closer, err := formImage(c)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}
		in.Image = img
	}

	p, err := h.mgr.Create(c.Request().Context(), caller.Username, in)
	if err != nil {
		return err
	}
	var imageURL any
	if p.CoverImage != "" {
		imageURL = p.CoverImage
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": p.ID, "image_url": imageURL})
}

// ===== Update =====
func (h *Handler) Update(c echo.Context) error {
	var in UpdateInput
	if isJSON(c) {
		var req postJSON
		if err := c.Bind(&req); err != nil {
			return apperror.Validation("invalid request")
		}
		in = UpdateInput{
			Title:      req.Title,
			Content:    req.Content,
			Tags:       req.Tags,
			Type:       req.Type,
			CoverImage: req.CoverImage,
		}
	} else {
		params, err := c.FormParams()
		if err != nil {
			return apperror.Validation("invalid form")
		}
		in = UpdateInput{
			Title:      formField(params, "title"),
			Content:    formField(params, "content"),
			Type:       formField(params, "type"),
			CoverImage: formField(params, "cover_image"),
		}
		if raw := formField(params, "tags"); raw != nil {
			tags := ParseTags(*raw)
			in.Tags = &tags
		}
		img, closer, err := formImage(c)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}
		in.Image = img
	}

	status, err := h.mgr.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": status})
}

// ===== Delete =====
func (h *Handler) Delete(c echo.Context) error {
	if err := h.mgr.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
