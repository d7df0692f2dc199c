package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/theraplan/theraplan/db"
	"github.com/theraplan/theraplan/models"
	"github.com/theraplan/theraplan/utils"
)

// StartCronJobs initializes and starts the cron scheduler for appointment reminders
func StartCronJobs() {
	c := cron.New()
	// Run every minute to check for appointments in the next hour
	_, err := c.AddFunc("* * * * *", sendAppointmentReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for appointment reminders")
}

// sendAppointmentReminders reminds clients about confirmed appointments
// starting in roughly one hour. The window is slightly wider than the
// one-minute tick so an appointment cannot slip between two runs.
func sendAppointmentReminders() {
	now := time.Now()
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	var appointments []models.Appointment
	err := db.DB.Preload("Client.User").Preload("Therapist.User").Preload("AppointmentType").
		Where("status = ? AND time BETWEEN ? AND ?", models.StatusConfirmed, startWindow, endWindow).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for i := range appointments {
		sendReminderEmail(&appointments[i])
		log.Printf("Queued reminder for appointment %d to %s",
			appointments[i].ID, appointments[i].Client.User.Email)
	}
}

// sendReminderEmail constructs and queues the reminder email
func sendReminderEmail(appointment *models.Appointment) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming appointment scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Session:</strong> %s</li>
			<li><strong>Therapist:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
		</ul>
		<p>If you need to reschedule or cancel, please do so as soon as possible.</p>
	`, appointment.Client.User.FirstName,
		appointment.AppointmentType.Name,
		appointment.Therapist.User.FullName(),
		appointment.Time.Format("2006-01-02 15:04"),
		appointment.End().Format("2006-01-02 15:04"))

	utils.QueueEmail(utils.EmailJob{
		To:      appointment.Client.User.Email,
		Subject: string(utils.SubjectAppointmentReminder),
		Body:    body,
	})
}
