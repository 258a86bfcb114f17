package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/terraincognita07/mediplan/internal/db"
	"github.com/terraincognita07/mediplan/internal/models"
	"github.com/terraincognita07/mediplan/internal/schedule"
	"github.com/terraincognita07/mediplan/internal/services"
	"gorm.io/gorm"
)

type ScheduleOptions struct {
	Now           time.Time
	Location      *time.Location
	UpcomingLimit int
}

// RunScheduleCommand prints what the user takes today and what starts next.
func RunScheduleCommand(dbPath string, email string, options ScheduleOptions, out io.Writer) error {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return fmt.Errorf("invalid email address %q", email)
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer db.Close(database)

	repos := db.NewRepositories(database)
	user, err := repos.Users.FindByNormalizedEmail(normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	now := options.Now
	if now.IsZero() {
		now = time.Now()
	}
	medications := services.NewMedicationService(repos.Medications, repos.Events, nil, options.Location)
	today, err := medications.Today(user.ID, now)
	if err != nil {
		return err
	}
	upcoming, err := medications.Upcoming(user.ID, now, options.UpcomingLimit)
	if err != nil {
		return err
	}

	location := options.Location
	if location == nil {
		location = time.UTC
	}
	return writeSchedule(out, schedule.FormatDate(schedule.Today(now.In(location))), today, upcoming)
}

func writeSchedule(out io.Writer, date string, today []models.Medication, upcoming []models.Medication) error {
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(writer, "Today (%s)\n", date)
	writeMedicationRows(writer, today, "No medications today.")
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, "Upcoming")
	writeMedicationRows(writer, upcoming, "Nothing scheduled.")

	return writer.Flush()
}

func writeMedicationRows(writer io.Writer, medications []models.Medication, empty string) {
	if len(medications) == 0 {
		fmt.Fprintf(writer, "  %s\n", empty)
		return
	}
	for _, medication := range medications {
		end := medication.EndDate
		if end == "" {
			end = "-"
		}
		fmt.Fprintf(writer, "  %s\t%s\t%s\t%s\t%s\n", medication.Name, medication.Dosage, medication.Frequency, medication.StartDate, end)
	}
}
