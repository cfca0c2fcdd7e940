package controller

import (
	"io"
	"net/http"

	"prescription-chatbot-be/internal/pkg/serverutils"
	"prescription-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const imageFormField = "image"

type IPrescriptionController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type prescriptionController struct {
	prescriptionService service.IPrescriptionService
}

func NewPrescriptionController(prescriptionService service.IPrescriptionService) IPrescriptionController {
	return &prescriptionController{
		prescriptionService: prescriptionService,
	}
}

func (c *prescriptionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/prescription/v1")
	h.Post(":sessionId", c.Upload)
	h.Get(":sessionId", c.Show)
}

func (c *prescriptionController) Upload(ctx *fiber.Ctx) error {
	// 1. Read the image part
	fileHeader, err := ctx.FormFile(imageFormField)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	mimeType := fileHeader.Header.Get(fiber.HeaderContentType)
	if mimeType == "" || mimeType == fiber.MIMEOctetStream {
		mimeType = http.DetectContentType(image)
	}

	// 2. Extract, translate, narrate and index
	res, err := c.prescriptionService.Process(ctx.Context(), ctx.Params("sessionId"), image, mimeType)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process prescription", res))
}

func (c *prescriptionController) Show(ctx *fiber.Ctx) error {
	res, err := c.prescriptionService.Get(ctx.Context(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get prescription", res))
}
