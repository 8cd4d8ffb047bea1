package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/clinic/internal/devserver/domain"
)

// Memory keeps every record in process memory. IDs are assigned from one
// counter per record type, starting at 1.
type Memory struct {
	mu sync.RWMutex

	users    map[int64]domain.User
	refresh  map[string]domain.RefreshToken
	patients map[int64]domain.Patient
	doctors  map[int64]domain.Doctor
	mappings map[int64]domain.Mapping

	seq map[string]int64
	now func() time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[int64]domain.User),
		refresh:  make(map[string]domain.RefreshToken),
		patients: make(map[int64]domain.Patient),
		doctors:  make(map[int64]domain.Doctor),
		mappings: make(map[int64]domain.Mapping),
		seq:      make(map[string]int64),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) Users() Users                 { return usersRepo{m} }
func (m *Memory) RefreshTokens() RefreshTokens { return refreshRepo{m} }
func (m *Memory) Patients() Patients           { return patientsRepo{m} }
func (m *Memory) Doctors() Doctors             { return doctorsRepo{m} }
func (m *Memory) Mappings() Mappings           { return mappingsRepo{m} }

func (m *Memory) Close() error { return nil }

func (m *Memory) Ping(ctx context.Context) error { return ctx.Err() }

// next must be called with mu held.
func (m *Memory) next(kind string) int64 {
	m.seq[kind]++
	return m.seq[kind]
}

func sortedByID[T any](items map[int64]T, id func(T) int64) []T {
	out := make([]T, 0, len(items))
	for _, v := range items {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(id(a), id(b)) })
	return out
}

// ============================================================================
// Users
// ============================================================================

type usersRepo struct{ m *Memory }

func (r usersRepo) GetUserByID(_ context.Context, id int64) (domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (r usersRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (r usersRepo) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, existing := range r.m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.User{}, ErrAlreadyExists
		}
	}

	u.ID = r.m.next("user")
	u.CreatedAt = r.m.now()
	r.m.users[u.ID] = u
	return u, nil
}

// ============================================================================
// Refresh tokens
// ============================================================================

type refreshRepo struct{ m *Memory }

func (r refreshRepo) SaveRefreshToken(_ context.Context, t domain.RefreshToken) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.refresh[t.Fingerprint]; ok {
		return ErrAlreadyExists
	}
	t.CreatedAt = r.m.now()
	r.m.refresh[t.Fingerprint] = t
	return nil
}

func (r refreshRepo) GetRefreshToken(_ context.Context, fingerprint string) (domain.RefreshToken, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	t, ok := r.m.refresh[fingerprint]
	if !ok {
		return domain.RefreshToken{}, ErrNotFound
	}
	return t, nil
}

// ============================================================================
// Patients
// ============================================================================

type patientsRepo struct{ m *Memory }

func (r patientsRepo) ListPatients(_ context.Context) ([]domain.Patient, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return sortedByID(r.m.patients, func(p domain.Patient) int64 { return p.ID }), nil
}

func (r patientsRepo) GetPatient(_ context.Context, id int64) (domain.Patient, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	p, ok := r.m.patients[id]
	if !ok {
		return domain.Patient{}, ErrNotFound
	}
	return p, nil
}

func (r patientsRepo) CreatePatient(_ context.Context, p domain.Patient) (domain.Patient, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	p.ID = r.m.next("patient")
	p.CreatedAt = r.m.now()
	p.UpdatedAt = p.CreatedAt
	r.m.patients[p.ID] = p
	return p, nil
}

func (r patientsRepo) UpdatePatient(_ context.Context, p domain.Patient) (domain.Patient, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.patients[p.ID]
	if !ok {
		return domain.Patient{}, ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.CreatedBy = existing.CreatedBy
	p.UpdatedAt = r.m.now()
	r.m.patients[p.ID] = p
	return p, nil
}

func (r patientsRepo) DeletePatient(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.patients[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.patients, id)
	for mid, mp := range r.m.mappings {
		if mp.PatientID == id {
			delete(r.m.mappings, mid)
		}
	}
	return nil
}

// ============================================================================
// Doctors
// ============================================================================

type doctorsRepo struct{ m *Memory }

func (r doctorsRepo) ListDoctors(_ context.Context) ([]domain.Doctor, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return sortedByID(r.m.doctors, func(d domain.Doctor) int64 { return d.ID }), nil
}

func (r doctorsRepo) GetDoctor(_ context.Context, id int64) (domain.Doctor, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	d, ok := r.m.doctors[id]
	if !ok {
		return domain.Doctor{}, ErrNotFound
	}
	return d, nil
}

// licenseTaken must be called with mu held.
func (r doctorsRepo) licenseTaken(license string, except int64) bool {
	for _, d := range r.m.doctors {
		if d.ID != except && d.LicenseNumber == license {
			return true
		}
	}
	return false
}

func (r doctorsRepo) CreateDoctor(_ context.Context, d domain.Doctor) (domain.Doctor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.licenseTaken(d.LicenseNumber, 0) {
		return domain.Doctor{}, ErrAlreadyExists
	}

	d.ID = r.m.next("doctor")
	d.CreatedAt = r.m.now()
	r.m.doctors[d.ID] = d
	return d, nil
}

func (r doctorsRepo) UpdateDoctor(_ context.Context, d domain.Doctor) (domain.Doctor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.doctors[d.ID]
	if !ok {
		return domain.Doctor{}, ErrNotFound
	}
	if r.licenseTaken(d.LicenseNumber, d.ID) {
		return domain.Doctor{}, ErrAlreadyExists
	}
	d.CreatedAt = existing.CreatedAt
	r.m.doctors[d.ID] = d
	return d, nil
}

func (r doctorsRepo) DeleteDoctor(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.doctors[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.doctors, id)
	for mid, mp := range r.m.mappings {
		if mp.DoctorID == id {
			delete(r.m.mappings, mid)
		}
	}
	return nil
}

// ============================================================================
// Mappings
// ============================================================================

type mappingsRepo struct{ m *Memory }

func (r mappingsRepo) ListMappings(_ context.Context) ([]domain.Mapping, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return sortedByID(r.m.mappings, func(mp domain.Mapping) int64 { return mp.ID }), nil
}

func (r mappingsRepo) ListMappingsByPatient(_ context.Context, patientID int64) ([]domain.Mapping, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	if _, ok := r.m.patients[patientID]; !ok {
		return nil, ErrNotFound
	}

	all := sortedByID(r.m.mappings, func(mp domain.Mapping) int64 { return mp.ID })
	return slices.DeleteFunc(all, func(mp domain.Mapping) bool { return mp.PatientID != patientID }), nil
}

func (r mappingsRepo) CreateMapping(_ context.Context, mp domain.Mapping) (domain.Mapping, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.patients[mp.PatientID]; !ok {
		return domain.Mapping{}, ErrNotFound
	}
	if _, ok := r.m.doctors[mp.DoctorID]; !ok {
		return domain.Mapping{}, ErrNotFound
	}
	for _, existing := range r.m.mappings {
		if existing.PatientID == mp.PatientID && existing.DoctorID == mp.DoctorID {
			return domain.Mapping{}, ErrAlreadyExists
		}
	}

	mp.ID = r.m.next("mapping")
	mp.AssignedDate = r.m.now()
	r.m.mappings[mp.ID] = mp
	return mp, nil
}

func (r mappingsRepo) DeleteMapping(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.mappings[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.mappings, id)
	return nil
}
