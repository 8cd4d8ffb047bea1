package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/clinic/internal/devserver/domain"
	"github.com/aussiebroadwan/clinic/internal/devserver/store"
	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
	"github.com/aussiebroadwan/clinic/pkg/httpx"
)

type PatientsHandler struct {
	Store store.Store
}

func toPatient(p domain.Patient) clinicsdk.Patient {
	return clinicsdk.Patient{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		PhoneNumber:    p.PhoneNumber,
		Address:        p.Address,
		DateOfBirth:    p.DateOfBirth,
		BloodGroup:     p.BloodGroup,
		MedicalHistory: p.MedicalHistory,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func applyPatientInput(p *domain.Patient, in clinicsdk.PatientInput) {
	p.Name = in.Name
	p.Email = in.Email
	p.PhoneNumber = in.PhoneNumber
	p.Address = in.Address
	p.DateOfBirth = in.DateOfBirth
	p.BloodGroup = in.BloodGroup
	p.MedicalHistory = in.MedicalHistory
}

func applyPatientPatch(p *domain.Patient, in clinicsdk.PatientPatch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, in.Name)
	set(&p.Email, in.Email)
	set(&p.PhoneNumber, in.PhoneNumber)
	set(&p.Address, in.Address)
	set(&p.DateOfBirth, in.DateOfBirth)
	set(&p.BloodGroup, in.BloodGroup)
	set(&p.MedicalHistory, in.MedicalHistory)
}

// HandleList handles GET /api/patients/
func (h *PatientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	patients, err := h.Store.Patients().ListPatients(r.Context())
	if err != nil {
		writeServerError(w, r, "failed to list patients", err)
		return
	}

	out := make([]clinicsdk.Patient, len(patients))
	for i, p := range patients {
		out[i] = toPatient(p)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /api/patients/{id}/
func (h *PatientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPatient(p))
}

// HandleCreate handles POST /api/patients/
func (h *PatientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in clinicsdk.PatientInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	var p domain.Patient
	applyPatientInput(&p, in)
	if claims, ok := httpx.ClaimsFromContext(r.Context()); ok {
		p.CreatedBy = claims.UserID
	}

	p, err := h.Store.Patients().CreatePatient(r.Context(), p)
	if err != nil {
		writeServerError(w, r, "failed to create patient", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPatient(p))
}

// HandleUpdate handles PUT /api/patients/{id}/
func (h *PatientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}

	var in clinicsdk.PatientInput
	if !decodeAndValidate(w, r, &in) {
		return
	}
	applyPatientInput(&p, in)
	h.save(w, r, p)
}

// HandlePatch handles PATCH /api/patients/{id}/
func (h *PatientsHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}

	var in clinicsdk.PatientPatch
	if !decodeAndValidate(w, r, &in) {
		return
	}
	applyPatientPatch(&p, in)
	h.save(w, r, p)
}

// HandleDelete handles DELETE /api/patients/{id}/
func (h *PatientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.WriteDetail(w, http.StatusNotFound, detailNotFound)
		return
	}

	if err := h.Store.Patients().DeletePatient(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteDetail(w, http.StatusNotFound, detailNotFound)
			return
		}
		writeServerError(w, r, "failed to delete patient", err)
		return
	}
	httpx.NoContent(w)
}

func (h *PatientsHandler) load(w http.ResponseWriter, r *http.Request) (domain.Patient, bool) {
	id, ok := pathID(r)
	if !ok {
		httpx.WriteDetail(w, http.StatusNotFound, detailNotFound)
		return domain.Patient{}, false
	}

	p, err := h.Store.Patients().GetPatient(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteDetail(w, http.StatusNotFound, detailNotFound)
			return domain.Patient{}, false
		}
		writeServerError(w, r, "failed to load patient", err)
		return domain.Patient{}, false
	}
	return p, true
}

func (h *PatientsHandler) save(w http.ResponseWriter, r *http.Request, p domain.Patient) {
	p, err := h.Store.Patients().UpdatePatient(r.Context(), p)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteDetail(w, http.StatusNotFound, detailNotFound)
			return
		}
		writeServerError(w, r, "failed to update patient", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPatient(p))
}
