package controller

import (
	"io"

	"recados-be/internal/dto"
	"recados-be/internal/pkg/apperror"
	"recados-be/internal/pkg/serverutils"
	"recados-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPersonController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	UploadPicture(ctx *fiber.Ctx) error
}

type personController struct {
	service service.IPersonService
}

func NewPersonController(service service.IPersonService) IPersonController {
	return &personController{service: service}
}

func (c *personController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/persons")
	h.Post("", c.Create) // sign-up
	h.Post("/upload-picture", auth, c.UploadPicture)
	h.Get("", auth, c.List)
	h.Get("/:id", auth, c.Show)
	h.Patch("/:id", auth, c.Update)
	h.Delete("/:id", auth, c.Delete)
}

func (c *personController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePersonRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Person created", res))
}

func (c *personController) List(ctx *fiber.Ctx) error {
	res, err := c.service.FindAll(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list persons", res))
}

func (c *personController) Show(ctx *fiber.Ctx) error {
	id, err := serverutils.ParseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.FindOne(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show person", res))
}

func (c *personController) Update(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdatePersonRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), callerId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Person updated", res))
}

func (c *personController) Delete(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Remove(ctx.UserContext(), callerId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Person deleted", res))
}

func (c *personController) UploadPicture(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return apperror.BadRequest("file is required")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	// one byte over the limit is enough for the service to reject it
	data, err := io.ReadAll(io.LimitReader(src, service.MaxPictureSize+1))
	if err != nil {
		return err
	}

	res, err := c.service.UploadPicture(ctx.UserContext(), callerId, data)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Picture uploaded", res))
}
