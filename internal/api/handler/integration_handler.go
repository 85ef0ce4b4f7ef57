package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exlity/admin-backend/internal/api/metrics"
	"github.com/exlity/admin-backend/internal/core/service"
)

// IntegrationHandler exposes the external-service operations: file upload and
// the placeholder LLM, email, image, and extraction endpoints.
type IntegrationHandler struct {
	integrations *service.Integrations
	functions    *service.Functions
}

func NewIntegrationHandler(integrations *service.Integrations, functions *service.Functions) *IntegrationHandler {
	return &IntegrationHandler{integrations: integrations, functions: functions}
}

// UploadFile stores a multipart file in object storage.
//
// @Summary      Upload a file
// @Tags         integrations
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File to upload"
// @Success      200   {object}  service.UploadResult
// @Failure      400   {object}  map[string]string
// @Router       /v1/integrations/upload-file [post]
func (h *IntegrationHandler) UploadFile(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file could not be read")
	}
	defer file.Close()

	result, err := h.integrations.Core.UploadFile(c.Request().Context(), service.UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     file,
	})
	if err != nil {
		metrics.FileUploadsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.FileUploadsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, result)
}

// InvokeLLM runs the placeholder completion endpoint.
//
// @Summary      Invoke LLM
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        body  body      service.LLMInput  true  "Prompt and options"
// @Success      200   {object}  service.LLMResult
// @Router       /v1/integrations/invoke-llm [post]
func (h *IntegrationHandler) InvokeLLM(c echo.Context) error {
	var input service.LLMInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.integrations.Core.InvokeLLM(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// SendEmail runs the placeholder email endpoint.
//
// @Summary      Send email
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        body  body      service.EmailInput  true  "Email fields"
// @Success      200   {object}  service.EmailResult
// @Failure      400   {object}  map[string]string
// @Router       /v1/integrations/send-email [post]
func (h *IntegrationHandler) SendEmail(c echo.Context) error {
	var input service.EmailInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.integrations.Core.SendEmail(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type imageRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// GenerateImage runs the placeholder image generation endpoint.
//
// @Summary      Generate image
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        body  body      imageRequest  true  "Image prompt"
// @Success      200   {object}  service.ImageResult
// @Failure      400   {object}  map[string]string
// @Router       /v1/integrations/generate-image [post]
func (h *IntegrationHandler) GenerateImage(c echo.Context) error {
	var req imageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.integrations.Core.GenerateImage(c.Request().Context(), req.Prompt)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ExtractData runs the placeholder file extraction endpoint.
//
// @Summary      Extract data from uploaded file
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        body  body      service.ExtractInput  true  "File URL and optional schema"
// @Success      200   {object}  service.ExtractResult
// @Failure      400   {object}  map[string]string
// @Router       /v1/integrations/extract-data [post]
func (h *IntegrationHandler) ExtractData(c echo.Context) error {
	var input service.ExtractInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.integrations.Core.ExtractDataFromUploadedFile(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type captchaRequest struct {
	Token string `json:"token"`
}

// VerifyHcaptcha runs the captcha verification stub.
//
// @Summary      Verify captcha token
// @Tags         functions
// @Accept       json
// @Produce      json
// @Param        body  body      captchaRequest  true  "Captcha token"
// @Success      200   {object}  service.CaptchaResult
// @Router       /v1/functions/verify-hcaptcha [post]
func (h *IntegrationHandler) VerifyHcaptcha(c echo.Context) error {
	var req captchaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.JSON(http.StatusOK, h.functions.VerifyHcaptcha(c.Request().Context(), req.Token))
}
