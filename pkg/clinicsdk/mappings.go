package clinicsdk

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/clinic/pkg/validate"
)

func (c *Client) ListMappings(ctx context.Context) ([]Mapping, error) {
	return list[Mapping](ctx, c, PathMappings)
}

// ListPatientDoctors returns the mappings of a single patient.
func (c *Client) ListPatientDoctors(ctx context.Context, patientID int64) ([]Mapping, error) {
	return list[Mapping](ctx, c, patientDoctorsPath(patientID))
}

// CreateMapping assigns a doctor to a patient.
func (c *Client) CreateMapping(ctx context.Context, in MappingInput) (*Mapping, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var m Mapping
	if err := c.call(ctx, http.MethodPost, PathMappings, in, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteMapping(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, mappingPath(id), nil, nil)
}
