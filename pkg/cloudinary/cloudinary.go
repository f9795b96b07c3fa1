package cloudinary

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"schooldir/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ErrNoLocation is returned when the upload reply carries no secure_url.
var ErrNoLocation = errors.New("cloudinary response has no secure_url")

// Config holds the unsigned upload settings.
type Config struct {
	CloudName    string
	UploadPreset string
	Folder       string
	APIURL       string        // e.g. https://api.cloudinary.com/v1_1
	Timeout      time.Duration // 0 disables the transport timeout
}

// UploadResult is the part of the upload reply the service needs.
type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type uploadResponse struct {
	UploadResult
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client uploads images to Cloudinary with an unsigned preset.
type Client struct {
	cfg Config
}

// NewClient creates a new Cloudinary client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.CloudName == "" || cfg.UploadPreset == "" || cfg.Folder == "" {
		return nil, errors.New("cloudinary cloud name, upload preset and folder are required")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.cloudinary.com/v1_1"
	}
	return &Client{cfg: cfg}, nil
}

// UploadURL is the unsigned image upload endpoint for the configured cloud.
func (c *Client) UploadURL() string {
	return fmt.Sprintf("%s/%s/image/upload", c.cfg.APIURL, c.cfg.CloudName)
}

// Upload sends the image as a base64 data URI and returns its hosted location.
func (c *Client) Upload(ctx context.Context, image *models.ImageUpload) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	publicID := uuid.New().String()
	dataURI := fmt.Sprintf("data:%s;base64,%s", image.ContentType, base64.StdEncoding.EncodeToString(image.Data))

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("file", dataURI)
	args.Set("upload_preset", c.cfg.UploadPreset)
	args.Set("folder", c.cfg.Folder)
	args.Set("public_id", publicID)

	agent := fiber.Post(c.UploadURL())
	if c.cfg.Timeout > 0 {
		agent.Timeout(c.cfg.Timeout)
	}
	agent.MultipartForm(args)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, fmt.Errorf("failed to prepare cloudinary request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("cloudinary upload failed: %w", errors.Join(errs...))
	}

	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode cloudinary response (status %d): %w", code, err)
	}

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		msg := "unexpected status"
		if resp.Error != nil && resp.Error.Message != "" {
			msg = resp.Error.Message
		}
		return nil, fmt.Errorf("cloudinary upload rejected (status %d): %s", code, msg)
	}
	if resp.SecureURL == "" {
		return nil, ErrNoLocation
	}
	if resp.PublicID == "" {
		resp.PublicID = publicID
	}

	log.Printf("Uploaded %s to cloudinary as %s", image.Filename, resp.PublicID)
	return &resp.UploadResult, nil
}
