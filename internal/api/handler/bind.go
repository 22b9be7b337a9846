package handler

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/goldline/production-tracker/internal/core/domain"
)

// bindAndValidate binds the request into req and runs the struct validator.
// Unknown JSON fields are ignored.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalidf("invalid payload")
	}
	return c.Validate(req)
}

// decodeStrict decodes a JSON body into req and rejects fields req does not
// declare. It is used for updates, where a misspelled key would otherwise be
// dropped silently.
func decodeStrict(c echo.Context, req any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalidf("request body is empty")
		}
		return domain.Invalidf("invalid payload: %v", err)
	}
	if dec.More() {
		return domain.Invalidf("invalid payload: trailing data")
	}
	return c.Validate(req)
}
