package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/middleware"
	"github.com/iliyamo/todo-list-api/internal/queue"
	"github.com/iliyamo/todo-list-api/internal/repository"
	queue_publisher "github.com/iliyamo/todo-list-api/internal/service"
)

// itemsRoute is the registered path of the list endpoint; it doubles as
// the cache invalidation key for mutating handlers.
const itemsRoute = "/api/items"

// ItemHandler implements the item CRUD endpoints. Every handler runs
// behind the JWT auth gate and operates only on rows owned by the
// authenticated user.
type ItemHandler struct {
	Items *repository.ItemRepo
	Cache *middleware.UserCache
}

func NewItemHandler(items *repository.ItemRepo, cache *middleware.UserCache) *ItemHandler {
	return &ItemHandler{Items: items, Cache: cache}
}

type itemReq struct {
	Text string `json:"text"`
	Done *bool  `json:"done"`
}

// getUserID extracts the user_id placed in context by the auth gate.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// List handles GET /api/items and returns all items owned by the caller
// in insertion order. The response is always a JSON array, never null.
func (h *ItemHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	items, err := h.Items.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		return handleStoreError(c, err, "getting items")
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var body itemReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "text is required"})
	}

	item := &repository.Item{UserID: uid, Text: text}
	if err := h.Items.Create(c.Request().Context(), item); err != nil {
		return handleStoreError(c, err, "creating an item")
	}
	h.afterMutation(c, "created", item)
	return c.JSON(http.StatusCreated, item)
}

// Update handles PUT /api/items/:id. The item is looked up by the
// path-supplied id and must belong to the caller; a missing or foreign
// item yields 404 without revealing which of the two it was.
func (h *ItemHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return handleStoreError(c, &repository.StoreError{Kind: repository.KindNotFound, Op: "item.update"}, "updating an item")
	}
	var body itemReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "text is required"})
	}

	ctx := c.Request().Context()
	current, err := h.Items.GetByIDAndOwner(ctx, id, uid)
	if err != nil {
		return handleStoreError(c, err, "updating an item")
	}
	done := current.Done
	if body.Done != nil {
		done = *body.Done
	}
	updated, err := h.Items.Update(ctx, id, uid, text, done)
	if err != nil {
		return handleStoreError(c, err, "updating an item")
	}
	h.afterMutation(c, "updated", updated)
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/items/:id with the same ownership contract
// as Update. Repeating a delete yields 404, not a second success.
func (h *ItemHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return handleStoreError(c, &repository.StoreError{Kind: repository.KindNotFound, Op: "item.delete"}, "deleting an item")
	}
	if err := h.Items.DeleteByIDAndOwner(c.Request().Context(), id, uid); err != nil {
		return handleStoreError(c, err, "deleting an item")
	}
	h.afterMutation(c, "deleted", &repository.Item{ID: id, UserID: uid})
	return c.NoContent(http.StatusNoContent)
}

// afterMutation drops the caller's cached list and publishes an activity
// event. Both are best-effort side effects; failures never surface to the
// client.
func (h *ItemHandler) afterMutation(c echo.Context, action string, it *repository.Item) {
	ctx := c.Request().Context()
	h.Cache.Invalidate(ctx, itemsRoute, it.UserID)
	_ = queue_publisher.PublishItemEvent(ctx, queue.ItemEvent{
		Action:     action,
		ItemID:     it.ID,
		UserID:     it.UserID,
		Text:       it.Text,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
