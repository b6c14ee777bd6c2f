package services

import (
	"context"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier delivers a text message and returns the provider message id.
type Notifier interface {
	Channel() string
	Send(ctx context.Context, to, body string) (string, error)
}

type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioNotifier(accountSid, authToken, from string) *TwilioNotifier {
	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
	}
}

func (n *TwilioNotifier) Channel() string {
	return "sms"
}

// Send ignores ctx; the twilio client has no context-aware API.
func (n *TwilioNotifier) Send(_ context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(body)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return "", errors.Wrapf(err, "failed to send message to %s", to)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
