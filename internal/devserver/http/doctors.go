package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/clinic/internal/devserver/domain"
	"github.com/aussiebroadwan/clinic/internal/devserver/store"
	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
	"github.com/aussiebroadwan/clinic/pkg/httpx"
)

const msgLicenseTaken = "doctor with this license number already exists."

type DoctorsHandler struct {
	Store store.Store
}

func toDoctor(d domain.Doctor) clinicsdk.Doctor {
	return clinicsdk.Doctor{
		ID:              d.ID,
		Name:            d.Name,
		Email:           d.Email,
		PhoneNumber:     d.PhoneNumber,
		Specialization:  d.Specialization,
		Qualification:   d.Qualification,
		ExperienceYears: d.ExperienceYears,
		LicenseNumber:   d.LicenseNumber,
		ClinicAddress:   d.ClinicAddress,
		ConsultationFee: clinicsdk.Money(d.ConsultationFee),
		IsAvailable:     d.IsAvailable,
		CreatedAt:       d.CreatedAt,
	}
}

func fromDoctorInput(id int64, in clinicsdk.DoctorInput) domain.Doctor {
	return domain.Doctor{
		ID:              id,
		Name:            in.Name,
		Email:           in.Email,
		PhoneNumber:     in.PhoneNumber,
		Specialization:  in.Specialization,
		Qualification:   in.Qualification,
		ExperienceYears: in.ExperienceYears,
		LicenseNumber:   in.LicenseNumber,
		ClinicAddress:   in.ClinicAddress,
		ConsultationFee: in.ConsultationFee,
		IsAvailable:     in.IsAvailable,
	}
}

// HandleList handles GET /api/doctors/
func (h *DoctorsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.Store.Doctors().ListDoctors(r.Context())
	if err != nil {
		writeServerError(w, r, "failed to list doctors", err)
		return
	}

	out := make([]clinicsdk.Doctor, len(doctors))
	for i, d := range doctors {
		out[i] = toDoctor(d)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /api/doctors/{id}/
func (h *DoctorsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.WriteDetail(w, http.StatusNotFound, detailNotFound)
		return
	}

	d, err := h.Store.Doctors().GetDoctor(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, "failed to load doctor", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDoctor(d))
}

// HandleCreate handles POST /api/doctors/
func (h *DoctorsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in clinicsdk.DoctorInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	d, err := h.Store.Doctors().CreateDoctor(r.Context(), fromDoctorInput(0, in))
	if err != nil {
		h.writeStoreError(w, r, "failed to create doctor", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toDoctor(d))
}

// HandleUpdate handles PUT /api/doctors/{id}/
func (h *DoctorsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.WriteDetail(w, http.StatusNotFound, detailNotFound)
		return
	}

	var in clinicsdk.DoctorInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	d, err := h.Store.Doctors().UpdateDoctor(r.Context(), fromDoctorInput(id, in))
	if err != nil {
		h.writeStoreError(w, r, "failed to update doctor", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDoctor(d))
}

// HandleDelete handles DELETE /api/doctors/{id}/. Admin only.
func (h *DoctorsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.WriteDetail(w, http.StatusNotFound, detailNotFound)
		return
	}

	if err := h.Store.Doctors().DeleteDoctor(r.Context(), id); err != nil {
		h.writeStoreError(w, r, "failed to delete doctor", err)
		return
	}
	httpx.NoContent(w)
}

func (h *DoctorsHandler) writeStoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteDetail(w, http.StatusNotFound, detailNotFound)
	case errors.Is(err, store.ErrAlreadyExists):
		writeFieldError(w, "license_number", msgLicenseTaken)
	default:
		writeServerError(w, r, msg, err)
	}
}
