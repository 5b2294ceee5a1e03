package mailer_test

import (
	"context"
	"testing"

	"boutique/pkg/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	m := mailer.New(mailer.Config{From: "orders@boutique.local"})

	msg, err := m.BuildMessage("customer@example.com", "Your order", "<p>Thanks</p>")
	require.NoError(t, err)
	to := msg.GetToString()
	require.Len(t, to, 1)
	assert.Contains(t, to[0], "customer@example.com")

	_, err = m.BuildMessage("not an address", "Your order", "<p>Thanks</p>")
	assert.Error(t, err)
}

func TestSendWithoutHost(t *testing.T) {
	m := mailer.New(mailer.Config{From: "orders@boutique.local"})
	assert.False(t, m.Configured())
	assert.Error(t, m.Send(context.Background(), "customer@example.com", "s", "b"))
}
