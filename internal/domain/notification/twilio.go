package notification

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioNotifier sends the confirmation as an SMS. Customers without a phone
// number are skipped.
type TwilioNotifier struct {
	api  messageCreator
	from string
	log  *zap.Logger
}

func NewTwilioNotifier(accountSID, authToken, from string, log *zap.Logger) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return newTwilioNotifier(client.Api, from, log)
}

func newTwilioNotifier(api messageCreator, from string, log *zap.Logger) *TwilioNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &TwilioNotifier{api: api, from: from, log: log}
}

func (n *TwilioNotifier) BookingConfirmed(_ context.Context, c Confirmation) error {
	if c.CustomerPhone == "" {
		n.log.Info("no phone number, confirmation sms skipped", zap.String("booking_id", c.BookingID))
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(c.CustomerPhone)
	params.SetFrom(n.from)
	params.SetBody(ConfirmationMessage(c))

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send confirmation sms: %w", err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	n.log.Info("confirmation sms sent", zap.String("booking_id", c.BookingID), zap.String("sid", sid))
	return nil
}
