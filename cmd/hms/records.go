package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ehr/hms/internal/domain/identity"
	"github.com/ehr/hms/internal/domain/scheduling"
	"github.com/ehr/hms/internal/platform/table"
	"github.com/ehr/hms/internal/shell"
)

// withShell loads the app and runs fn on one scoped connection.
func withShell(fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.provider.Close()

		return a.provider.WithConn(cmd.Context(), func(ctx context.Context) error {
			return fn(ctx, cmd, a, args)
		})
	}
}

// report prints a successful result and turns a failed one into the
// command's error.
func report(cmd *cobra.Command, r shell.ActionResult) error {
	if !r.OK {
		return errors.New(r.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), r.Message)
	return nil
}

// prefill copies current values into every flag the user did not set, so
// an update only changes what was asked for.
func prefill(cmd *cobra.Command, current map[string]string) error {
	for name, v := range current {
		if cmd.Flags().Changed(name) {
			continue
		}
		if err := cmd.Flags().Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFee(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// -- patients --

func patientFlags(cmd *cobra.Command, f *shell.PatientForm) {
	fs := cmd.Flags()
	fs.StringVar(&f.PatientID, "id", "", "Patient ID (generated when empty)")
	fs.StringVar(&f.Name, "name", "", "Full name")
	fs.StringVar(&f.Age, "age", "", "Age in years")
	fs.StringVar(&f.Gender, "gender", "", "Male, Female or Other")
	fs.StringVar(&f.Phone, "phone", "", "Phone number")
	fs.StringVar(&f.Email, "email", "", "Email address")
	fs.StringVar(&f.Address, "address", "", "Postal address")
	fs.StringVar(&f.BloodGroup, "blood-group", "", "Blood group")
	fs.StringVar(&f.EmergencyContact, "emergency-contact", "", "Emergency contact")
}

func patientValues(p *identity.Patient) map[string]string {
	return map[string]string{
		"name":              p.Name,
		"age":               strconv.Itoa(p.Age),
		"gender":            string(p.Gender),
		"phone":             p.Phone,
		"email":             optionalString(p.Email),
		"address":           p.Address,
		"blood-group":       p.BloodGroup,
		"emergency-contact": p.EmergencyContact,
	}
}

func patientCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "patient", Short: "Manage patients"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all patients",
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			a.shell.Reload(ctx)
			return table.Render(cmd.OutOrStdout(), a.shell.Patients)
		}),
	})

	var addForm shell.PatientForm
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a patient",
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			return report(cmd, a.shell.AddPatient(ctx, addForm))
		}),
	}
	patientFlags(add, &addForm)
	cmd.AddCommand(add)

	var updForm shell.PatientForm
	upd := &cobra.Command{
		Use:   "update <patient-id>",
		Short: "Change a patient's details",
		Args:  cobra.ExactArgs(1),
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			current := a.patients.GetPatientByID(ctx, args[0])
			if current == nil {
				return fmt.Errorf("patient %s not found", args[0])
			}
			if err := prefill(cmd, patientValues(current)); err != nil {
				return err
			}
			updForm.PatientID = current.PatientID
			return report(cmd, a.shell.UpdatePatient(ctx, updForm))
		}),
	}
	patientFlags(upd, &updForm)
	cmd.AddCommand(upd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <patient-id>",
		Short: "Remove a patient without appointments",
		Args:  cobra.ExactArgs(1),
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			return report(cmd, a.shell.DeletePatient(ctx, args[0]))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "search <name>",
		Short: "Find patients by part of their name",
		Args:  cobra.ExactArgs(1),
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			a.shell.SearchPatients(ctx, args[0])
			return table.Render(cmd.OutOrStdout(), a.shell.Patients)
		}),
	})

	return cmd
}

// -- doctors --

func doctorFlags(cmd *cobra.Command, f *shell.DoctorForm) {
	fs := cmd.Flags()
	fs.StringVar(&f.DoctorID, "id", "", "Doctor ID (generated when empty)")
	fs.StringVar(&f.Name, "name", "", "Full name")
	fs.StringVar(&f.Specialization, "specialization", "", "Specialization")
	fs.StringVar(&f.Phone, "phone", "", "Phone number")
	fs.StringVar(&f.Email, "email", "", "Email address")
	fs.StringVar(&f.Qualification, "qualification", "", "Qualification")
	fs.StringVar(&f.Experience, "experience", "", "Years of experience")
	fs.StringVar(&f.Fee, "fee", "", "Consultation fee")
	fs.StringVar(&f.Available, "available", "", "yes or no (default yes)")
}

func doctorValues(d *identity.Doctor) map[string]string {
	available := "no"
	if d.Available {
		available = "yes"
	}
	return map[string]string{
		"name":           d.Name,
		"specialization": d.Specialization,
		"phone":          d.Phone,
		"email":          optionalString(d.Email),
		"qualification":  d.Qualification,
		"experience":     strconv.Itoa(d.ExperienceYears),
		"fee":            formatFee(d.ConsultationFee),
		"available":      available,
	}
}

func doctorCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "doctor", Short: "Manage doctors"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all doctors",
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			a.shell.Reload(ctx)
			return table.Render(cmd.OutOrStdout(), a.shell.Doctors)
		}),
	})

	var addForm shell.DoctorForm
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a doctor",
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			return report(cmd, a.shell.AddDoctor(ctx, addForm))
		}),
	}
	doctorFlags(add, &addForm)
	cmd.AddCommand(add)

	var updForm shell.DoctorForm
	upd := &cobra.Command{
		Use:   "update <doctor-id>",
		Short: "Change a doctor's details",
		Args:  cobra.ExactArgs(1),
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			current := a.doctors.GetDoctorByID(ctx, args[0])
			if current == nil {
				return fmt.Errorf("doctor %s not found", args[0])
			}
			if err := prefill(cmd, doctorValues(current)); err != nil {
				return err
			}
			updForm.DoctorID = current.DoctorID
			return report(cmd, a.shell.UpdateDoctor(ctx, updForm))
		}),
	}
	doctorFlags(upd, &updForm)
	cmd.AddCommand(upd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <doctor-id>",
		Short: "Remove a doctor without appointments",
		Args:  cobra.ExactArgs(1),
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			return report(cmd, a.shell.DeleteDoctor(ctx, args[0]))
		}),
	})

	var specialization string
	available := &cobra.Command{
		Use:   "available",
		Short: "List doctors taking appointments",
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			docs := a.shell.AvailableDoctors(ctx, specialization)
			return table.Render(cmd.OutOrStdout(), table.New(docs, identity.DoctorColumns))
		}),
	}
	available.Flags().StringVar(&specialization, "specialization", "", "Only this specialization")
	cmd.AddCommand(available)

	cmd.AddCommand(&cobra.Command{
		Use:   "specializations",
		Short: "List specializations of available doctors",
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			for _, s := range a.shell.Specializations(ctx) {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		}),
	})

	return cmd
}

// -- appointments --

func appointmentCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "appointment", Short: "Manage appointments"}

	var doctorID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List appointments, newest first",
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			if doctorID != "" {
				appts := a.shell.AppointmentsForDoctor(ctx, doctorID)
				return table.Render(cmd.OutOrStdout(), table.New(appts, scheduling.AppointmentColumns))
			}
			a.shell.Reload(ctx)
			return table.Render(cmd.OutOrStdout(), a.shell.Appointments)
		}),
	}
	list.Flags().StringVar(&doctorID, "doctor", "", "Only this doctor's appointments")
	cmd.AddCommand(list)

	var form shell.AppointmentForm
	schedule := &cobra.Command{
		Use:   "schedule",
		Short: "Book a patient with an available doctor",
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			if form.PatientID == "" || form.DoctorID == "" {
				opts := a.shell.SchedulingOptions(ctx)
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Patients:")
				if err := table.Render(out, table.New(opts.Patients, identity.PatientColumns)); err != nil {
					return err
				}
				fmt.Fprintln(out, "\nAvailable doctors:")
				if err := table.Render(out, table.New(opts.Doctors, identity.DoctorColumns)); err != nil {
					return err
				}
				return errors.New("choose a patient with --patient and a doctor with --doctor")
			}
			return report(cmd, a.shell.ScheduleAppointment(ctx, form))
		}),
	}
	fs := schedule.Flags()
	fs.StringVar(&form.AppointmentID, "id", "", "Appointment ID (generated when empty)")
	fs.StringVar(&form.PatientID, "patient", "", "Patient ID")
	fs.StringVar(&form.DoctorID, "doctor", "", "Doctor ID")
	fs.StringVar(&form.Date, "date", "", "Date as YYYY-MM-DD")
	fs.StringVar(&form.Time, "time", "", "Time as HH:MM")
	fs.StringVar(&form.Reason, "reason", "", "Reason for the visit")
	fs.StringVar(&form.Fee, "fee", "", "Fee")
	cmd.AddCommand(schedule)

	cmd.AddCommand(&cobra.Command{
		Use:   "status <appointment-id> <status>",
		Short: "Set status: Scheduled, Completed, Cancelled or No-Show",
		Args:  cobra.ExactArgs(2),
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			return report(cmd, a.shell.SetAppointmentStatus(ctx, args[0], args[1]))
		}),
	})

	var details shell.AppointmentDetailsForm
	upd := &cobra.Command{
		Use:   "update <appointment-id>",
		Short: "Record diagnosis, prescription, fee and status",
		Args:  cobra.ExactArgs(1),
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			current := a.appointments.GetAppointmentByID(ctx, args[0])
			if current == nil {
				return fmt.Errorf("appointment %s not found", args[0])
			}
			err := prefill(cmd, map[string]string{
				"diagnosis":    optionalString(current.Diagnosis),
				"prescription": optionalString(current.Prescription),
				"fee":          formatFee(current.Fee),
				"status":       string(current.Status),
			})
			if err != nil {
				return err
			}
			details.AppointmentID = current.AppointmentID
			return report(cmd, a.shell.UpdateAppointment(ctx, details))
		}),
	}
	fs = upd.Flags()
	fs.StringVar(&details.Diagnosis, "diagnosis", "", "Diagnosis")
	fs.StringVar(&details.Prescription, "prescription", "", "Prescription")
	fs.StringVar(&details.Fee, "fee", "", "Fee")
	fs.StringVar(&details.Status, "status", "", "Status")
	cmd.AddCommand(upd)

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <appointment-id>",
		Short: "Remove an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			return report(cmd, a.shell.CancelAppointment(ctx, args[0]))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "by-date <YYYY-MM-DD>",
		Short: "List one day's appointments by time",
		Args:  cobra.ExactArgs(1),
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			appts, err := a.shell.AppointmentsOn(ctx, args[0])
			if err != nil {
				return err
			}
			return table.Render(cmd.OutOrStdout(), table.New(appts, scheduling.AppointmentColumns))
		}),
	})

	var slotDoctor, slotDate, slotTime string
	slot := &cobra.Command{
		Use:   "slot",
		Short: "Check whether a doctor is free at a date and time",
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			r := a.shell.CheckSlot(ctx, slotDoctor, slotDate, slotTime)
			fmt.Fprintln(cmd.OutOrStdout(), r.Message)
			return nil
		}),
	}
	slot.Flags().StringVar(&slotDoctor, "doctor", "", "Doctor ID")
	slot.Flags().StringVar(&slotDate, "date", "", "Date as YYYY-MM-DD")
	slot.Flags().StringVar(&slotTime, "time", "", "Time as HH:MM")
	for _, name := range []string{"doctor", "date", "time"} {
		_ = slot.MarkFlagRequired(name)
	}
	cmd.AddCommand(slot)

	return cmd
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show record counts",
		RunE: withShell(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			a.shell.Reload(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), a.shell.Summary())
			return nil
		}),
	}
}
