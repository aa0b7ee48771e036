package controller

import (
	"recados-be/internal/dto"
	"recados-be/internal/pkg/cache"
	"recados-be/internal/pkg/serverutils"
	"recados-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
	cache       *cache.ResponseCache
}

func NewNoteController(noteService service.INoteService, responseCache *cache.ResponseCache) INoteController {
	return &noteController{
		noteService: noteService,
		cache:       responseCache,
	}
}

// Reads are public and cached; writes need a token.
func (c *noteController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/notes")
	cached := serverutils.CacheResponses(c.cache)
	h.Get("", cached, c.List)
	h.Get(":id", cached, c.Show)
	h.Post("", auth, c.Create)
	h.Patch(":id", auth, c.Update)
	h.Delete(":id", auth, c.Delete)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	var req dto.PaginationRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "limit and offset must be integers")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.List(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list notes", res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	id, err := serverutils.ParseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.noteService.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateNoteRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.UserContext(), callerId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success create note", res))
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateNoteRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.noteService.Update(ctx.UserContext(), callerId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update note", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.noteService.Remove(ctx.UserContext(), callerId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete note", res))
}
