package clinicsdk

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/clinic/pkg/validate"
)

func (c *Client) ListPatients(ctx context.Context) ([]Patient, error) {
	return list[Patient](ctx, c, PathPatients)
}

func (c *Client) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	var p Patient
	if err := c.call(ctx, http.MethodGet, patientPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePatient(ctx context.Context, in PatientInput) (*Patient, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var p Patient
	if err := c.call(ctx, http.MethodPost, PathPatients, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePatient replaces every field of the patient.
func (c *Client) UpdatePatient(ctx context.Context, id int64, in PatientInput) (*Patient, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var p Patient
	if err := c.call(ctx, http.MethodPut, patientPath(id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PatchPatient updates only the fields set in patch.
func (c *Client) PatchPatient(ctx context.Context, id int64, patch PatientPatch) (*Patient, error) {
	if err := validate.Struct(patch); err != nil {
		return nil, err
	}

	var p Patient
	if err := c.call(ctx, http.MethodPatch, patientPath(id), patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePatient(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, patientPath(id), nil, nil)
}
