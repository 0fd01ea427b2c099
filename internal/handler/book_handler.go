package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "bookworm/internal/errors"
	"bookworm/internal/metrics"
	"bookworm/internal/middleware"
	"bookworm/internal/service"
)

// BookHandler handles book endpoints. All of them require an authenticated
// user attached to the context by the auth gate.
type BookHandler struct {
	bookService service.BookService
}

// NewBookHandler creates a new book handler.
func NewBookHandler(bookService service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// CreateBookRequest represents a book creation request.
type CreateBookRequest struct {
	Title   string `json:"title" validate:"required"`
	Caption string `json:"caption" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Image   string `json:"image" validate:"required"`
}

// Create godoc
// @Summary Create a book review
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookRequest true "Book data with base64 image"
// @Success 201 {object} model.Book
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /books [post]
func (h *BookHandler) Create(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}

	var req CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.bookService.Create(c.Request().Context(), user, service.CreateBookInput{
		Title:   req.Title,
		Caption: req.Caption,
		Rating:  req.Rating,
		Image:   req.Image,
	})
	if err != nil {
		metrics.IncBookOp("create", "failed")
		return apperrors.MapErrorToHTTP(err)
	}

	metrics.IncBookOp("create", "success")
	return c.JSON(http.StatusCreated, book)
}

// Feed godoc
// @Summary Paginated feed of all books
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 2)"
// @Success 200 {object} service.FeedPage
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /books [get]
func (h *BookHandler) Feed(c echo.Context) error {
	page, limit := service.NormalizePagination(c.QueryParam("page"), c.QueryParam("limit"))

	feed, err := h.bookService.Feed(c.Request().Context(), page, limit)
	if err != nil {
		return apperrors.MapErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, feed)
}

// ListByOwner godoc
// @Summary Books of the authenticated user
// @Tags books
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Book
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /books/user [get]
func (h *BookHandler) ListByOwner(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}

	books, err := h.bookService.ListByOwner(c.Request().Context(), user.ID)
	if err != nil {
		return apperrors.MapErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, books)
}

// Delete godoc
// @Summary Delete an owned book
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}

	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// An unparseable id cannot match any book.
		return echo.NewHTTPError(http.StatusNotFound, apperrors.ErrBookNotFound.Error())
	}

	if err := h.bookService.Delete(c.Request().Context(), user.ID, bookID); err != nil {
		metrics.IncBookOp("delete", "failed")
		return apperrors.MapErrorToHTTP(err)
	}

	metrics.IncBookOp("delete", "success")
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Book deleted successfully",
	})
}
