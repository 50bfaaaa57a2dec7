package notifier

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/rs/zerolog"

	config "github.com/Keoroanthony/go-comic-rental/configs"
	"github.com/Keoroanthony/go-comic-rental/internal/models"
)

// SESAPI is the part of the SES client the email notifier uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailNotifier sends a rental receipt to the shop inbox through SES.
type EmailNotifier struct {
	cfg    config.EmailConfig
	client SESAPI
	log    zerolog.Logger
}

func NewEmailNotifier(ctx context.Context, cfg config.EmailConfig, log zerolog.Logger) (*EmailNotifier, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}
	return NewEmailNotifierWithClient(cfg, ses.NewFromConfig(awsCfg), log), nil
}

func NewEmailNotifierWithClient(cfg config.EmailConfig, client SESAPI, log zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, client: client, log: log}
}

func (n *EmailNotifier) RentalCreated(ctx context.Context, rental models.Rental) error {
	if n.cfg.SenderEmail == "" {
		return fmt.Errorf("sender email address is not configured")
	}
	if n.cfg.ShopInbox == "" {
		return fmt.Errorf("shop inbox address is not configured")
	}

	subject := fmt.Sprintf("Rental #%d for %s", rental.ID, rental.Customer.FullName)
	bodyHTML, bodyText := receiptBodies(rental)

	input := &ses.SendEmailInput{
		Source: aws.String(n.cfg.SenderEmail),
		Destination: &types.Destination{
			ToAddresses: []string{n.cfg.ShopInbox},
		},
		Message: &types.Message{
			Subject: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(subject)},
			Body: &types.Body{
				Html: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(bodyHTML)},
				Text: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(bodyText)},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.log.Info().Uint("rental_id", rental.ID).Str("to", n.cfg.ShopInbox).Msg("rental receipt email sent")
	return nil
}

func receiptBodies(rental models.Rental) (string, string) {
	var h, t strings.Builder
	date := rental.RentalDate.Format("2006-01-02 15:04")

	fmt.Fprintf(&h, "<html><body><p>Rental #%d was created on %s for %s (%s).</p><ul>",
		rental.ID, date, html.EscapeString(rental.Customer.FullName), html.EscapeString(rental.Customer.PhoneNumber))
	fmt.Fprintf(&t, "Rental #%d was created on %s for %s (%s).\n\n",
		rental.ID, date, rental.Customer.FullName, rental.Customer.PhoneNumber)

	for _, d := range rental.Details {
		price := d.PricePerDay.StringFixed(2)
		fmt.Fprintf(&h, "<li>%s x%d at KES %s/day</li>", html.EscapeString(d.ComicBook.Title), d.Quantity, price)
		fmt.Fprintf(&t, "- %s x%d at KES %s/day\n", d.ComicBook.Title, d.Quantity, price)
	}

	total := rental.DailyTotal().StringFixed(2)
	fmt.Fprintf(&h, "</ul><p><strong>Daily total: KES %s</strong></p></body></html>", total)
	fmt.Fprintf(&t, "\nDaily total: KES %s\n", total)
	return h.String(), t.String()
}
