package utils

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/account"
	"github.com/stripe/stripe-go/v76/accountlink"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"github.com/theraplan/theraplan/models"
)

// InitStripe configures the Stripe client. Calls time out rather than
// hang a request goroutine.
func InitStripe() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	stripe.SetHTTPClient(&http.Client{Timeout: 15 * time.Second})
}

// CreateConnectedAccount creates an Express account for a therapist and
// returns its opaque identifier for storage on the Therapist record.
func CreateConnectedAccount(email string) (string, error) {
	acct, err := account.New(&stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create connected account: %w", err)
	}
	return acct.ID, nil
}

// CreateOnboardingLink returns a one-time URL where the therapist
// completes Stripe onboarding.
func CreateOnboardingLink(accountID string) (string, error) {
	baseURL := os.Getenv("APP_BASE_URL")

	link, err := accountlink.New(&stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(baseURL + "/payments/onboarding/refresh"),
		ReturnURL:  stripe.String(baseURL + "/payments/onboarding/complete"),
		Type:       stripe.String("account_onboarding"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create onboarding link: %w", err)
	}
	return link.URL, nil
}

// CreateCheckoutSession starts a Stripe Checkout payment for an
// appointment, with the fee routed to the therapist's connected account.
// The appointment ID rides along as the client reference so the webhook
// can resolve the payment back to the booking.
func CreateCheckoutSession(appointment *models.Appointment, appointmentType *models.AppointmentType, stripeAccountID string) (string, error) {
	baseURL := os.Getenv("APP_BASE_URL")

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(fmt.Sprintf("%d", appointment.ID)),
		SuccessURL:        stripe.String(fmt.Sprintf("%s/appointments/%d?payment=success", baseURL, appointment.ID)),
		CancelURL:         stripe.String(fmt.Sprintf("%s/appointments/%d?payment=cancelled", baseURL, appointment.ID)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(appointmentType.FeeCurrency),
					UnitAmount: stripe.Int64(int64(appointmentType.FeeAmount * 100)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(appointmentType.Name),
					},
				},
			},
		},
	}
	if stripeAccountID != "" {
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(stripeAccountID),
			},
		}
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.URL, nil
}
