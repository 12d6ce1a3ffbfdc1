package identity

import "context"

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	List(ctx context.Context) ([]*Patient, error)
	GetByPatientID(ctx context.Context, patientID string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, patientID string) error
	SearchByName(ctx context.Context, name string) ([]*Patient, error)
	Count(ctx context.Context) (int, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	List(ctx context.Context) ([]*Doctor, error)
	GetByDoctorID(ctx context.Context, doctorID string) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, doctorID string) error
	ListBySpecialization(ctx context.Context, specialization string) ([]*Doctor, error)
	ListAvailable(ctx context.Context) ([]*Doctor, error)
	Specializations(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}
