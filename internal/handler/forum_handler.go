package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"edulegal/internal/domain"
	"edulegal/internal/middleware"
	"edulegal/internal/service/forum"
)

type ForumHandler struct {
	forumService forum.Service
}

func NewForumHandler(forumService forum.Service) *ForumHandler {
	return &ForumHandler{forumService: forumService}
}

func (h *ForumHandler) ListPosts(c *fiber.Ctx) error {
	var filter domain.PostFilter
	if v := c.Query("category"); v != "" {
		category := domain.ForumCategory(v)
		filter.Category = &category
	}
	caseID, err := queryUUID(c, "caseId")
	if err != nil {
		return err
	}
	filter.CaseID = caseID

	result, err := h.forumService.ListPosts(c.Context(), filter, getPaginationParams(c))
	if err != nil {
		return mapForumError(err)
	}

	return respond(c, fiber.StatusOK, "", result)
}

func (h *ForumHandler) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Post not found")
	if err != nil {
		return err
	}

	post, err := h.forumService.GetPost(c.Context(), id)
	if err != nil {
		return mapForumError(err)
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{"post": post})
}

func (h *ForumHandler) CreatePost(c *fiber.Ctx) error {
	var input domain.CreatePostInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	post, err := h.forumService.CreatePost(c.Context(), middleware.GetCurrentUser(c), input)
	if err != nil {
		return mapForumError(err)
	}

	return respond(c, fiber.StatusCreated, "Post created", fiber.Map{"post": post})
}

func (h *ForumHandler) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Post not found")
	if err != nil {
		return err
	}

	var input domain.UpdatePostInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	post, err := h.forumService.UpdatePost(c.Context(), middleware.GetCurrentUser(c), id, input)
	if err != nil {
		return mapForumError(err)
	}

	return respond(c, fiber.StatusOK, "Post updated", fiber.Map{"post": post})
}

func (h *ForumHandler) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Post not found")
	if err != nil {
		return err
	}

	if err := h.forumService.DeletePost(c.Context(), middleware.GetCurrentUser(c), id); err != nil {
		return mapForumError(err)
	}

	return respond(c, fiber.StatusOK, "Post deleted", nil)
}

func (h *ForumHandler) AddComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "Post not found")
	if err != nil {
		return err
	}

	var input domain.CreateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	comment, err := h.forumService.AddComment(c.Context(), middleware.GetCurrentUser(c), postID, input)
	if err != nil {
		return mapForumError(err)
	}

	return respond(c, fiber.StatusCreated, "Comment added", fiber.Map{"comment": comment})
}

func (h *ForumHandler) UpdateComment(c *fiber.Ctx) error {
	id, err := parseID(c, "commentId", "Comment not found")
	if err != nil {
		return err
	}

	var input domain.UpdateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	comment, err := h.forumService.UpdateComment(c.Context(), middleware.GetCurrentUser(c), id, input)
	if err != nil {
		return mapForumError(err)
	}

	return respond(c, fiber.StatusOK, "Comment updated", fiber.Map{"comment": comment})
}

func (h *ForumHandler) DeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c, "commentId", "Comment not found")
	if err != nil {
		return err
	}

	if err := h.forumService.DeleteComment(c.Context(), middleware.GetCurrentUser(c), id); err != nil {
		return mapForumError(err)
	}

	return respond(c, fiber.StatusOK, "Comment deleted", nil)
}

func mapForumError(err error) error {
	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		return middleware.NotFound("Post not found")
	case errors.Is(err, domain.ErrCommentNotFound):
		return middleware.NotFound("Comment not found")
	case errors.Is(err, forum.ErrCaseNotFound):
		return middleware.NotFound("Linked case not found")
	case errors.Is(err, forum.ErrForbidden):
		return middleware.Forbidden(capitalize(err.Error()))
	case errors.Is(err, forum.ErrInvalidCategory):
		return middleware.BadRequest(capitalize(err.Error()))
	}
	return inputError(err)
}
