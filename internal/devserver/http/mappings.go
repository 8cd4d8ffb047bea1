package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/clinic/internal/devserver/domain"
	"github.com/aussiebroadwan/clinic/internal/devserver/store"
	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
	"github.com/aussiebroadwan/clinic/pkg/httpx"
)

const msgAlreadyAssigned = "This doctor is already assigned to this patient."

type MappingsHandler struct {
	Store store.Store
}

func invalidPK(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// expand fills in the denormalized patient and doctor fields.
func (h *MappingsHandler) expand(ctx context.Context, m domain.Mapping) (clinicsdk.Mapping, error) {
	out := clinicsdk.Mapping{
		ID:           m.ID,
		Patient:      m.PatientID,
		Doctor:       m.DoctorID,
		Notes:        m.Notes,
		IsActive:     m.IsActive,
		AssignedDate: m.AssignedDate,
	}

	p, err := h.Store.Patients().GetPatient(ctx, m.PatientID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return out, err
	}
	out.PatientName = p.Name

	d, err := h.Store.Doctors().GetDoctor(ctx, m.DoctorID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return out, err
	}
	out.DoctorName = d.Name
	out.DoctorSpecialization = d.Specialization

	return out, nil
}

func (h *MappingsHandler) writeList(w http.ResponseWriter, r *http.Request, mappings []domain.Mapping) {
	out := make([]clinicsdk.Mapping, len(mappings))
	for i, m := range mappings {
		expanded, err := h.expand(r.Context(), m)
		if err != nil {
			writeServerError(w, r, "failed to expand mapping", err)
			return
		}
		out[i] = expanded
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleList handles GET /api/mappings/
func (h *MappingsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.Store.Mappings().ListMappings(r.Context())
	if err != nil {
		writeServerError(w, r, "failed to list mappings", err)
		return
	}
	h.writeList(w, r, mappings)
}

// HandlePatientDoctors handles GET /api/mappings/{id}/ where id is a patient.
func (h *MappingsHandler) HandlePatientDoctors(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(r)
	if !ok {
		httpx.WriteDetail(w, http.StatusNotFound, detailNotFound)
		return
	}

	mappings, err := h.Store.Mappings().ListMappingsByPatient(r.Context(), patientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteDetail(w, http.StatusNotFound, detailNotFound)
			return
		}
		writeServerError(w, r, "failed to list patient mappings", err)
		return
	}
	h.writeList(w, r, mappings)
}

// HandleCreate handles POST /api/mappings/
func (h *MappingsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in clinicsdk.MappingInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	if _, err := h.Store.Patients().GetPatient(ctx, in.Patient); errors.Is(err, store.ErrNotFound) {
		writeFieldError(w, "patient", invalidPK(in.Patient))
		return
	}
	if _, err := h.Store.Doctors().GetDoctor(ctx, in.Doctor); errors.Is(err, store.ErrNotFound) {
		writeFieldError(w, "doctor", invalidPK(in.Doctor))
		return
	}

	m, err := h.Store.Mappings().CreateMapping(ctx, domain.Mapping{
		PatientID: in.Patient,
		DoctorID:  in.Doctor,
		Notes:     in.Notes,
		IsActive:  in.IsActive,
	})
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteFieldErrors(w, map[string][]string{"non_field_errors": {msgAlreadyAssigned}})
		return
	case errors.Is(err, store.ErrNotFound):
		// Deleted between the checks above and the insert
		httpx.WriteDetail(w, http.StatusBadRequest, detailNotFound)
		return
	case err != nil:
		writeServerError(w, r, "failed to create mapping", err)
		return
	}

	out, err := h.expand(ctx, m)
	if err != nil {
		writeServerError(w, r, "failed to expand mapping", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, out)
}

// HandleDelete handles DELETE /api/mappings/{id}/
func (h *MappingsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.WriteDetail(w, http.StatusNotFound, detailNotFound)
		return
	}

	if err := h.Store.Mappings().DeleteMapping(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteDetail(w, http.StatusNotFound, detailNotFound)
			return
		}
		writeServerError(w, r, "failed to delete mapping", err)
		return
	}
	httpx.NoContent(w)
}
