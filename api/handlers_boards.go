package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"workboard-api/domain"
)

type boardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssignedTo  *string `json:"assigned_to"`
}

type updateTaskRequest struct {
	ID string `json:"id"`
	taskRequest
}

func listBoards(boards BoardStore, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics := newBoardRequestMetrics(logger)
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		fetchStart := time.Now()
		owned, fetchErr := boards.BoardsByOwner(c.Request().Context(), callerID(c))
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			metrics.SetErrorStage("storage")
			c.Logger().Error(fetchErr)
			err = c.JSON(http.StatusInternalServerError, detail(msgInternalError))
			return err
		}
		metrics.SetBoardsReturned(len(owned))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, owned)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func createBoard(boards BoardStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req boardRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, detail("invalid body"))
		}

		fe := domain.FieldErrors{}
		if req.Name == nil {
			fe.Add("name", "This field is required.")
		} else if *req.Name == "" {
			fe.Add("name", "This field may not be blank.")
		}
		if len(fe) > 0 {
			return c.JSON(http.StatusBadRequest, fe)
		}

		description := ""
		if req.Description != nil {
			description = *req.Description
		}

		// The owner is always the caller; any owner hint in the body is ignored.
		board, err := boards.CreateBoard(c.Request().Context(), callerID(c), *req.Name, description)
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, detail(msgInternalError))
		}
		return c.JSON(http.StatusCreated, board)
	}
}

func getBoard(boards BoardStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		boardID, ok := pathID(c)
		if !ok {
			return c.JSON(http.StatusNotFound, detail(msgNotFound))
		}
		board, err := boards.BoardByID(c.Request().Context(), callerID(c), boardID)
		if err != nil {
			return boardLookupError(c, err)
		}
		return c.JSON(http.StatusOK, board)
	}
}

func updateBoard(boards BoardStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		boardID, ok := pathID(c)
		if !ok {
			return c.JSON(http.StatusNotFound, detail(msgNotFound))
		}
		var req boardRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, detail("invalid body"))
		}
		if req.Name != nil && *req.Name == "" {
			return c.JSON(http.StatusBadRequest, domain.FieldErrors{"name": {"This field may not be blank."}})
		}

		board, err := boards.UpdateBoard(c.Request().Context(), callerID(c), boardID, req.Name, req.Description)
		if err != nil {
			return boardLookupError(c, err)
		}
		return c.JSON(http.StatusOK, board)
	}
}

func deleteBoard(boards BoardStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		boardID, ok := pathID(c)
		if !ok {
			return c.JSON(http.StatusNotFound, detail(msgNotFound))
		}
		if err := boards.DeleteBoard(c.Request().Context(), callerID(c), boardID); err != nil {
			return boardLookupError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func addTask(boards BoardStore, users IdentityStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		boardID, ok := pathID(c)
		if !ok {
			return c.JSON(http.StatusNotFound, detail(msgNotFound))
		}

		// The board is resolved through the owner-scoped lookup before any
		// validation, so a foreign board id fails closed with 404 and no
		// task row is ever written.
		board, err := boards.BoardByID(ctx, callerID(c), boardID)
		if err != nil {
			return boardLookupError(c, err)
		}

		var req taskRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, detail("invalid body"))
		}

		fe := domain.FieldErrors{}
		if req.Title == nil {
			fe.Add("title", "This field is required.")
		} else if *req.Title == "" {
			fe.Add("title", "This field may not be blank.")
		}
		if req.AssignedTo == nil {
			fe.Add("assigned_to", "This field is required.")
		} else if !assigneeExists(c, users, *req.AssignedTo) {
			fe.Add("assigned_to", "User does not exist.")
		}
		if len(fe) > 0 {
			return c.JSON(http.StatusBadRequest, fe)
		}

		fields := domain.TaskFields{
			Title:      *req.Title,
			Status:     domain.DefaultTaskStatus,
			AssignedTo: *req.AssignedTo,
		}
		if req.Description != nil {
			fields.Description = *req.Description
		}
		if req.Status != nil && *req.Status != "" {
			fields.Status = *req.Status
		}

		task, err := boards.CreateTask(ctx, board.ID, fields)
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, detail(msgInternalError))
		}
		return c.JSON(http.StatusCreated, task)
	}
}

func updateTask(boards BoardStore, users IdentityStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		var req updateTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, detail("invalid body"))
		}
		if req.ID == "" {
			return c.JSON(http.StatusBadRequest, domain.FieldErrors{"id": {"This field is required."}})
		}
		if _, err := uuid.Parse(req.ID); err != nil {
			return c.JSON(http.StatusNotFound, detail(msgNotFound))
		}

		// The task is resolved solely by the id in the body; the board id in
		// the path is accepted but not consulted, so ownership of the task's
		// board is NOT re-checked here. Left as is and pinned by a
		// regression test; see DESIGN.md before tightening this.
		if _, err := boards.TaskByID(ctx, req.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return c.JSON(http.StatusNotFound, detail(msgNotFound))
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, detail(msgInternalError))
		}

		fe := domain.FieldErrors{}
		if req.Title != nil && *req.Title == "" {
			fe.Add("title", "This field may not be blank.")
		}
		if req.AssignedTo != nil && !assigneeExists(c, users, *req.AssignedTo) {
			fe.Add("assigned_to", "User does not exist.")
		}
		if len(fe) > 0 {
			return c.JSON(http.StatusBadRequest, fe)
		}

		task, err := boards.UpdateTask(ctx, req.ID, domain.TaskPatch{
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
			AssignedTo:  req.AssignedTo,
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return c.JSON(http.StatusNotFound, detail(msgNotFound))
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, detail(msgInternalError))
		}
		return c.JSON(http.StatusOK, task)
	}
}

// pathID validates the board id path segment. Malformed ids map to the same
// 404 as absent boards so the error surface stays uniform.
func pathID(c echo.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func boardLookupError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.JSON(http.StatusNotFound, detail(msgNotFound))
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, detail(msgInternalError))
}

func assigneeExists(c echo.Context, users IdentityStore, id string) bool {
	if _, err := uuid.Parse(id); err != nil {
		return false
	}
	_, err := users.UserByID(c.Request().Context(), id)
	return err == nil
}
