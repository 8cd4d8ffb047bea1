package clinicsdk

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/clinic/pkg/validate"
)

func (c *Client) ListDoctors(ctx context.Context) ([]Doctor, error) {
	return list[Doctor](ctx, c, PathDoctors)
}

func (c *Client) GetDoctor(ctx context.Context, id int64) (*Doctor, error) {
	var d Doctor
	if err := c.call(ctx, http.MethodGet, doctorPath(id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) CreateDoctor(ctx context.Context, in DoctorInput) (*Doctor, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var d Doctor
	if err := c.call(ctx, http.MethodPost, PathDoctors, in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) UpdateDoctor(ctx context.Context, id int64, in DoctorInput) (*Doctor, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var d Doctor
	if err := c.call(ctx, http.MethodPut, doctorPath(id), in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteDoctor removes a doctor. The API reserves this for administrators
// and answers 403 otherwise.
func (c *Client) DeleteDoctor(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, doctorPath(id), nil, nil)
}
