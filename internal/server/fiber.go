package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	defaultBodyLimit  = 20 * 1024 * 1024
	cacheWriteTimeout = 2 * time.Second
)

// NewFiber creates the fiber app with jsoniter codecs and JSON error bodies.
func NewFiber(logger *logrus.Logger, bodyLimit int) *fiber.App {
	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLimit
	}
	return fiber.New(fiber.Config{
		AppName:               "Dice Reader",
		BodyLimit:             bodyLimit,
		StrictRouting:         true,
		CaseSensitive:         true,
		DisableStartupMessage: true,
		JSONEncoder:           jsoniter.Marshal,
		JSONDecoder:           jsoniter.Unmarshal,
		ErrorHandler:          errorHandler(logger),
	})
}

// errorHandler renders every returned error as {"error":{"message":...}}.
func errorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			logger.WithField("request_id", RequestID(c)).Errorf("Unhandled error: %v", err)
		}
		return c.Status(code).JSON(ErrorResponse{Error: ErrorBody{Message: err.Error()}})
	}
}
