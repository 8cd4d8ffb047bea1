package clinicsdk

import "fmt"

const (
	PathLogin    = "/auth/login/"
	PathRegister = "/auth/register/"
	PathPatients = "/patients/"
	PathDoctors  = "/doctors/"
	PathMappings = "/mappings/"
)

func patientPath(id int64) string { return fmt.Sprintf("/patients/%d/", id) }
func doctorPath(id int64) string  { return fmt.Sprintf("/doctors/%d/", id) }
func mappingPath(id int64) string { return fmt.Sprintf("/mappings/%d/", id) }

// patientDoctorsPath lists the mappings of one patient.
func patientDoctorsPath(patientID int64) string { return fmt.Sprintf("/mappings/%d/", patientID) }
