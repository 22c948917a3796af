package controller

import (
	"doc-knowledge-be/internal/dto"
	"doc-knowledge-be/internal/pkg/serverutils"
	"doc-knowledge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService service.ISearchService
}

func NewSearchController(searchService service.ISearchService) ISearchController {
	return &searchController{
		searchService: searchService,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	// Anonymous callers are served with public scope only.
	h.Use(serverutils.OptionalJwtMiddleware)
	h.Post("", c.Search)
}

func (c *searchController) Search(ctx *fiber.Ctx) error {
	principal := serverutils.GetPrincipal(ctx)

	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.Search(ctx.Context(), principal, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search", res))
}
