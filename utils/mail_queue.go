package utils

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/theraplan/theraplan/redis"
)

const mailQueueKey = "theraplan:mail_queue"

// EmailJob is one queued outbound email.
type EmailJob struct {
	ID      string `json:"id"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// QueueEmail pushes a job onto the redis mail queue so delivery happens
// off the request path. If redis is unavailable or the push fails, it
// falls back to a best-effort synchronous send. Delivery failures are
// logged and never propagate to the caller.
func QueueEmail(job EmailJob) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	if redis.Client == nil {
		sendNow(job)
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		log.Printf("Failed to marshal email job %s: %v", job.ID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redis.Client.LPush(ctx, mailQueueKey, payload).Err(); err != nil {
		log.Printf("Failed to enqueue email job %s, sending synchronously: %v", job.ID, err)
		sendNow(job)
	}
}

func sendNow(job EmailJob) {
	go func() {
		if err := SendEmail(job.To, job.Subject, job.Body); err != nil {
			log.Printf("Failed to send email %s to %s: %v", job.ID, job.To, err)
		}
	}()
}

// StartMailWorker consumes the mail queue in a background goroutine.
// Call once at startup after redis has been initialised.
func StartMailWorker() {
	if redis.Client == nil {
		log.Println("Mail worker not started: redis is not configured")
		return
	}

	go func() {
		log.Println("Mail worker started")
		for {
			result, err := redis.Client.BRPop(context.Background(), 0, mailQueueKey).Result()
			if err != nil {
				log.Printf("Mail worker failed to pop job: %v", err)
				time.Sleep(5 * time.Second)
				continue
			}
			// BRPop returns [key, value].
			if len(result) != 2 {
				continue
			}

			var job EmailJob
			if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
				log.Printf("Mail worker received malformed job: %v", err)
				continue
			}

			if err := SendEmail(job.To, job.Subject, job.Body); err != nil {
				log.Printf("Failed to send email %s to %s: %v", job.ID, job.To, err)
			}
		}
	}()
}
