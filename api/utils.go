package api

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// requestBodyMaxSize bounds how much of a request body is read before
// decoding; anything larger is treated as malformed.
const requestBodyMaxSize = 1 << 20

// decodeBody decodes a JSON request body into v. Unknown fields are ignored
// so clients cannot smuggle server-assigned attributes (notably a board
// owner) into a write.
func decodeBody(c echo.Context, v any) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	return sonic.ConfigStd.NewDecoder(lr).Decode(v)
}
