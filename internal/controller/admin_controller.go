package controller

import (
	"doc-knowledge-be/internal/pkg/apperr"
	"doc-knowledge-be/internal/pkg/serverutils"
	"doc-knowledge-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	ListUsers(ctx *fiber.Ctx) error
	ToggleUserActive(ctx *fiber.Ctx) error
	ResetUserCredential(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
}

func NewAdminController(adminService service.IAdminService) IAdminController {
	return &adminController{
		adminService: adminService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("users", c.ListUsers)
	h.Patch("users/:id/active", c.ToggleUserActive)
	h.Post("users/:id/credential", c.ResetUserCredential)
}

func (c *adminController) ListUsers(ctx *fiber.Ctx) error {
	principal := serverutils.GetPrincipal(ctx)

	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 10)
	search := ctx.Query("search")

	res, err := c.adminService.GetAllUsers(ctx.Context(), principal, page, limit, search)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list users", res))
}

func (c *adminController) ToggleUserActive(ctx *fiber.Ctx) error {
	principal := serverutils.GetPrincipal(ctx)

	userId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.Validation("invalid user id")
	}

	res, err := c.adminService.ToggleUserActive(ctx.Context(), principal, userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle user activation", res))
}

func (c *adminController) ResetUserCredential(ctx *fiber.Ctx) error {
	principal := serverutils.GetPrincipal(ctx)

	userId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.Validation("invalid user id")
	}

	res, err := c.adminService.ResetUserCredential(ctx.Context(), principal, userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset user credential", res))
}
