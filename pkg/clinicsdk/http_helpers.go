package clinicsdk

import (
	"context"
	"net/http"
)

// call sends a JSON request and decodes the response into out when out is
// non-nil.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.Send(ctx, &Request{Method: method, Path: path, Body: in})
	if err != nil {
		return err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return resp.Decode(out)
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	resp, err := c.Send(ctx, &Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	return decodeList[T](resp)
}
