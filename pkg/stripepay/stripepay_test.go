package stripepay_test

import (
	"context"
	"testing"
	"time"

	"boutique/pkg/stripepay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83/webhook"
)

const testPayload = `{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_test_1","object":"checkout.session"}}}`

func TestVerifyWebhook(t *testing.T) {
	client := stripepay.New(stripepay.Config{SecretKey: "sk_test_123", WebhookSecret: "whsec_test"})

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(testPayload),
		Secret:    "whsec_test",
		Timestamp: time.Now(),
	})

	event, err := client.VerifyWebhook(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "checkout.session.completed", string(event.Type))

	_, err = client.VerifyWebhook(signed.Payload, "t=1,v1=deadbeef")
	assert.Error(t, err)

	wrongSecret := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(testPayload),
		Secret:  "whsec_other",
	})
	_, err = client.VerifyWebhook(wrongSecret.Payload, wrongSecret.Header)
	assert.Error(t, err)
}

func TestNotConfigured(t *testing.T) {
	client := stripepay.New(stripepay.Config{})

	assert.False(t, client.CanCreateSessions())
	assert.False(t, client.CanVerifyWebhooks())

	_, err := client.CreateCheckoutSession(context.Background(), stripepay.SessionRequest{})
	assert.ErrorIs(t, err, stripepay.ErrNotConfigured)

	_, err = client.VerifyWebhook([]byte(testPayload), "t=1,v1=abc")
	assert.ErrorIs(t, err, stripepay.ErrNotConfigured)
}
