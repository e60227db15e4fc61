package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"dice-reader/internal/dice"
	"dice-reader/internal/storage"
	"dice-reader/internal/version"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "ok",
		Templates: s.templates,
		Version:   version.String(),
	})
}

// processImage reads the dice from a base64 encoded photo. Undecodable input
// is a 400; a photo the pipeline cannot read is a 200 carrying an error.
func (s *Server) processImage(c *fiber.Ctx) error {
	var req ProcessImageRequest
	if err := jsoniter.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%v: %v", dice.ErrInputDecode, err))
	}
	if err := s.validator.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%v: %v", dice.ErrInputDecode, err))
	}

	photo, payload, err := decodeImage(req.Image)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	entry := s.log.WithField("request_id", RequestID(c))

	ctx := c.UserContext()
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, payload); err == nil {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(cached)
		} else if !errors.Is(err, storage.ErrCacheMiss) {
			entry.Warnf("Result cache unavailable: %v", err)
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.extractor.Extract(ctx, photo)
	if err != nil {
		entry.WithField("size", photo.Bounds().Size().String()).Infof("Could not extract dice: %v", err)
		return c.JSON(ErrorResponse{Error: ErrorBody{Message: err.Error()}})
	}

	body, err := jsoniter.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if s.cache != nil {
		s.storeResult(entry, payload, body)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// storeResult caches a successful result. It does not use the request
// context, which may already be past its deadline.
func (s *Server) storeResult(entry logrus.FieldLogger, payload, body []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
	defer cancel()
	if err := s.cache.Set(ctx, payload, body); err != nil {
		entry.Warnf("Failed to cache result: %v", err)
	}
}

// decodeImage decodes a base64 photo in any registered image format and
// returns it along with the raw bytes.
func decodeImage(encoded string) (image.Image, []byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", dice.ErrInputDecode, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", dice.ErrInputDecode, err)
	}
	return img, raw, nil
}
