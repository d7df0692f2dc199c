package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/gomail.v2"

	"github.com/theraplan/theraplan/models"
)

// EmailSubject identifies the kind of notification being sent.
type EmailSubject string

const (
	SubjectEmailVerification      EmailSubject = "Email Verification"
	SubjectPasswordReset          EmailSubject = "Password Reset"
	SubjectAppointmentScheduled   EmailSubject = "Appointment Scheduled"
	SubjectAppointmentConfirmed   EmailSubject = "Appointment Confirmed"
	SubjectAppointmentRescheduled EmailSubject = "Appointment Rescheduled"
	SubjectAppointmentCancelled   EmailSubject = "Appointment Cancelled"
	SubjectAppointmentNoShow      EmailSubject = "Missed Appointment"
	SubjectAppointmentReminder    EmailSubject = "Appointment Reminder"
	SubjectPaymentFailed          EmailSubject = "Payment Failed"
)

// SendEmail delivers a single message over SMTP.
func SendEmail(to, subject, body string) error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("EMAIL_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("EMAIL_USER"),
		os.Getenv("EMAIL_PASS"),
	)

	return d.DialAndSend(m)
}

// SendAppointmentUpdateEmail notifies a user about a change to one of
// their appointments. Delivery goes through the mail queue and never
// blocks or fails the caller; a queue failure falls back to a direct
// synchronous send.
func SendAppointmentUpdateEmail(appointment *models.Appointment, recipient *models.User, subject EmailSubject) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>There is an update regarding your appointment.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Therapist:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
			<li><strong>Status:</strong> %s</li>
		</ul>
		<p>Log in to your account to view or manage this appointment.</p>
	`, recipient.FirstName,
		appointment.Therapist.User.FullName(),
		appointment.Time.Format("Monday, 2 January 2006"),
		appointment.Time.Format("15:04"),
		appointment.Status)

	QueueEmail(EmailJob{
		To:      recipient.Email,
		Subject: string(subject),
		Body:    body,
	})
}

// SendTokenEmail sends a verification or password reset link built from a
// one-time token.
func SendTokenEmail(recipient *models.User, subject EmailSubject, token string) {
	baseURL := os.Getenv("APP_BASE_URL")

	var link, action string
	switch subject {
	case SubjectPasswordReset:
		link = fmt.Sprintf("%s/auth/reset-password/%s", baseURL, token)
		action = "reset your password"
	default:
		link = fmt.Sprintf("%s/auth/email-verification/%s", baseURL, token)
		action = "verify your email address"
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Please follow the link below to %s:</p>
		<p><a href="%s">%s</a></p>
		<p>If you did not request this, you can safely ignore this email.</p>
	`, recipient.FirstName, action, link, link)

	QueueEmail(EmailJob{
		To:      recipient.Email,
		Subject: string(subject),
		Body:    body,
	})
}
