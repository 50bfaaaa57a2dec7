package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	config "github.com/Keoroanthony/go-comic-rental/configs"
	"github.com/Keoroanthony/go-comic-rental/internal/models"
)

type SMSResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Cost       string `json:"cost"`
			Status     string `json:"status"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// SMSNotifier texts the renting customer through the Africa's Talking API.
type SMSNotifier struct {
	cfg    config.AfricaTalkingConfig
	client *http.Client
	log    zerolog.Logger
}

func NewSMSNotifier(cfg config.AfricaTalkingConfig, client *http.Client, log zerolog.Logger) *SMSNotifier {
	if client == nil {
		client = &http.Client{}
	}
	return &SMSNotifier{cfg: cfg, client: client, log: log}
}

func SMSMessage(rental models.Rental) string {
	return fmt.Sprintf("Your rental #%d is confirmed: %d comic book(s), KES %s per day. Enjoy your reading!",
		rental.ID, len(rental.Details), rental.DailyTotal().StringFixed(2))
}

func (n *SMSNotifier) RentalCreated(ctx context.Context, rental models.Rental) error {
	to := rental.Customer.PhoneNumber
	if to == "" {
		n.log.Debug().Uint("rental_id", rental.ID).Msg("customer has no phone number, skipping SMS")
		return nil
	}

	data := url.Values{}
	data.Set("username", n.cfg.Username)
	data.Set("to", to)
	data.Set("message", SMSMessage(rental))
	data.Set("from", n.cfg.SenderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.SMSURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", n.cfg.APIKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("SMS send failed: %w", err)
	}
	defer resp.Body.Close()

	var smsResp SMSResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&smsResp)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		ev := n.log.Warn().Int("status", resp.StatusCode).Uint("rental_id", rental.ID)
		if decodeErr == nil {
			ev = ev.Str("api_message", smsResp.SMSMessageData.Message)
		}
		ev.Msg("SMS API returned non-success status")
		return fmt.Errorf("SMS API returned non-success status: %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode SMS response: %w", decodeErr)
	}

	n.log.Info().
		Uint("rental_id", rental.ID).
		Str("to", to).
		Str("api_message", smsResp.SMSMessageData.Message).
		Msg("rental SMS sent")
	return nil
}
