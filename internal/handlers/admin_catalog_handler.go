package handlers

import (
	"bytes"
	"io"

	"sneakerhead/internal/models"
	"sneakerhead/internal/services"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *AdminHandler) HandleListCategories(c *fiber.Ctx) error {
	page, err := h.svc.Categories.AdminList(c.UserContext(), c.Query("search"), pageRequest(c), h.pageSize)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"categories":  page.Items,
		"total":       page.Total,
		"total_pages": page.TotalPages,
		"page":        page.CurrentPage,
	})
}

func (h *AdminHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.svc.Categories.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"category": category})
}

func (h *AdminHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	category, err := h.svc.Categories.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, "Category created successfully", fiber.Map{"category": category})
}

func (h *AdminHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	category, err := h.svc.Categories.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Category updated successfully", fiber.Map{"category": category})
}

// HandleDeleteCategory deactivates a category; products keep their reference.
func (h *AdminHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.svc.Categories.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Category deleted successfully", nil)
}

func (h *AdminHandler) HandleListProducts(c *fiber.Ctx) error {
	page, err := h.svc.Products.AdminList(c.UserContext(), c.Query("search"), pageRequest(c), h.pageSize)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"products":    page.Items,
		"total":       page.Total,
		"total_pages": page.TotalPages,
		"page":        page.CurrentPage,
	})
}

func (h *AdminHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.svc.Products.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"product": product})
}

func (h *AdminHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badBody(c)
	}
	if err := h.svc.Products.CreateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, "Product created successfully", fiber.Map{"product": product})
}

func (h *AdminHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badBody(c)
	}
	updated, err := h.svc.Products.UpdateProduct(c.UserContext(), c.Params("id"), &product)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Product updated successfully", fiber.Map{"product": updated})
}

func (h *AdminHandler) HandleToggleProduct(c *fiber.Ctx) error {
	product, err := h.svc.Products.ToggleStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	message := "Product deactivated"
	if product.IsActive {
		message = "Product activated"
	}
	return ok(c, fiber.StatusOK, message, fiber.Map{"product": product})
}

// HandleDeleteProduct soft-deletes: the product is only deactivated.
func (h *AdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.svc.Products.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Product deleted successfully", nil)
}

func sendWorkbook(c *fiber.Ctx, filename string, buf *bytes.Buffer) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (h *AdminHandler) HandleExportProducts(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.svc.Exports.Products(c.UserContext(), &buf); err != nil {
		return respondError(c, h.log, err)
	}
	return sendWorkbook(c, "products.xlsx", &buf)
}

// HandleImportProducts reads the uploaded "file" workbook in the export layout.
func (h *AdminHandler) HandleImportProducts(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Please upload an .xlsx file")
	}
	f, err := header.Open()
	if err != nil {
		return respondError(c, h.log, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, h.log, err)
	}
	result, err := h.svc.Exports.ImportProducts(c.UserContext(), data)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	return ok(c, fiber.StatusOK, "Import finished", fiber.Map{"result": result})
}
